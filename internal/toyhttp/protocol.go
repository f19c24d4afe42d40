package toyhttp

import (
	"fmt"
	"strconv"
	"strings"
)

// Canned responses.
const (
	respNoID           = "HTTP/1.1 400 Bad Request\n\nNo ID is specified"
	respInvalidID      = "HTTP/1.1 400 Bad Request\n\nInvalid ID"
	respNotFound       = "HTTP/1.1 404 Not Found\n\nUser not found"
	respPostShort      = "HTTP/1.1 400 Bad Request\n"
	respInvalidAge     = "HTTP/1.1 400 Bad Request\n\nInvalid age"
	respUpdated        = "HTTP/1.1 200 OK\n\nUser data updated"
	respInvalidRequest = "HTTP/1.1 400 Bad Request\n\nInvalid request"
)

// Handle answers one request against store. Requests are "GET <id>" or
// "POST <name> <age>"; anything else is a 400.
func Handle(store *Store, request string) string {
	fields := strings.Fields(request)
	if len(fields) == 0 {
		return respInvalidRequest
	}

	switch fields[0] {
	case "GET":
		return handleGet(store, fields)
	case "POST":
		return handlePost(store, fields)
	default:
		return respInvalidRequest
	}
}

func handleGet(store *Store, fields []string) string {
	if len(fields) < 2 {
		return respNoID
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return respInvalidID
	}

	u, ok := store.Get(id)
	if !ok {
		return respNotFound
	}
	return fmt.Sprintf("HTTP/1.1 200 OK\nContent-Type: application/json\n\n%s", u.JSON())
}

func handlePost(store *Store, fields []string) string {
	if len(fields) < 3 {
		return respPostShort
	}

	age, err := strconv.Atoi(fields[2])
	if err != nil || age < 0 {
		return respInvalidAge
	}

	store.Add(fields[1], age)
	return respUpdated
}

// Response is a parsed service response.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       string
}

// ParseResponse splits a raw response into status line, headers and body.
func ParseResponse(raw string) (*Response, error) {
	head, body, _ := strings.Cut(raw, "\n\n")
	lines := strings.Split(strings.TrimRight(head, "\n"), "\n")

	proto, rest, ok := strings.Cut(lines[0], " ")
	if !ok || !strings.HasPrefix(proto, "HTTP/") {
		return nil, fmt.Errorf("malformed status line %q", lines[0])
	}
	codeText, _, _ := strings.Cut(rest, " ")
	code, err := strconv.Atoi(codeText)
	if err != nil {
		return nil, fmt.Errorf("malformed status code %q", codeText)
	}

	resp := &Response{
		StatusCode: code,
		Status:     rest,
		Headers:    make(map[string]string),
		Body:       body,
	}
	for _, line := range lines[1:] {
		if k, v, ok := strings.Cut(line, ":"); ok {
			resp.Headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return resp, nil
}
