// Package flagx contains helpers for components that each parse only their
// own subset of os.Args.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the arguments that belong to allowedFlags, keeping
// their values. "--config" and "-config" are the same flag, in allowedFlags
// and in args, with or without "=value". A following token
// that starts with "-" is never taken as a value. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[singleDash(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[singleDash(name)]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := allowed[singleDash(arg)]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// singleDash rewrites "--name" to "-name"; the flag package treats them alike.
func singleDash(arg string) string {
	if strings.HasPrefix(arg, "--") && len(arg) > 2 {
		return arg[1:]
	}
	return arg
}

// Positionals returns the arguments that are neither flags nor values of
// the flags listed in valueFlags, in their original order.
func Positionals(args []string, valueFlags []string) []string {
	takesValue := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		takesValue[singleDash(f)] = struct{}{}
	}

	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			out = append(out, arg)
			continue
		}
		if strings.Contains(arg, "=") {
			continue
		}
		if _, ok := takesValue[singleDash(arg)]; ok && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}
	return out
}

// ConfigFile extracts the JSON config path given with -c or -config.
// When both are present the last one wins; an empty string means none.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
