package main

// legacyCommands maps the single-dash verbs of the old command line to
// subcommands.
var legacyCommands = map[string]string{
	"-status":  "status",
	"-latency": "latency",
	"-curl":    "curl",
}

// translateLegacyArgs rewrites the old argument style into subcommand form:
//
//	-status 10.0.0.1 22 80        -> status 10.0.0.1 22 80
//	-status 10.0.0.1 -r 20 30     -> status 10.0.0.1 -r 20 30
//	-latency 10.0.0.1 80          -> latency 10.0.0.1 80
//	-curl 127.0.0.1 8080 -GET 1   -> curl 127.0.0.1 8080 GET 1
//
// Anything else is returned unchanged.
func translateLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	cmd, ok := legacyCommands[args[0]]
	if !ok {
		return args
	}

	out := make([]string, 0, len(args))
	out = append(out, cmd)
	for i, arg := range args[1:] {
		// The method is always the fourth word of a legacy curl line
		if cmd == "curl" && i == 2 && (arg == "-GET" || arg == "-POST") {
			arg = arg[1:]
		}
		out = append(out, arg)
	}
	return out
}
