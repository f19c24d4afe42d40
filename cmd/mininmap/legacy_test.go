package main

import (
	"reflect"
	"testing"
)

func TestTranslateLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", []string{}, []string{}},
		{"status ports", []string{"-status", "8.8.8.8", "22", "80"}, []string{"status", "8.8.8.8", "22", "80"}},
		{"status range", []string{"-status", "8.8.8.8", "-r", "40", "80"}, []string{"status", "8.8.8.8", "-r", "40", "80"}},
		{"latency", []string{"-latency", "8.8.8.8", "80"}, []string{"latency", "8.8.8.8", "80"}},
		{"curl get", []string{"-curl", "127.0.0.1", "8080", "-GET", "1"}, []string{"curl", "127.0.0.1", "8080", "GET", "1"}},
		{"curl post", []string{"-curl", "127.0.0.1", "8080", "-POST", "yabal", "21"}, []string{"curl", "127.0.0.1", "8080", "POST", "yabal", "21"}},
		{"post name that looks like a verb", []string{"-curl", "127.0.0.1", "8080", "-POST", "-GET", "21"}, []string{"curl", "127.0.0.1", "8080", "POST", "-GET", "21"}},
		{"modern form untouched", []string{"status", "10.0.0.1", "22"}, []string{"status", "10.0.0.1", "22"}},
		{"flags untouched", []string{"--help"}, []string{"--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateLegacyArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("translateLegacyArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
