// Package flagx lets several components share os.Args without tripping over
// each other's flags: each component filters the arguments down to the flags
// it owns before handing them to its own flag.FlagSet.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags.
//
// Both "-name value" and "-name=value" forms are recognised. A separate value
// is only consumed when it does not itself start with a dash.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
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

// Names lists every flag defined on fs in "-name" form, suitable as the
// allowedFlags argument of FilterArgs.
func Names(fs *flag.FlagSet) []string {
	var names []string
	fs.VisitAll(func(f *flag.Flag) {
		names = append(names, "-"+f.Name, "--"+f.Name)
	})
	return names
}

// ParseOwn filters args down to the flags defined on fs and parses them.
func ParseOwn(fs *flag.FlagSet, args []string) error {
	return fs.Parse(FilterArgs(args, Names(fs)))
}

// ConfigFileFlag extracts the JSON config path given via -c or -config.
// An empty string means no file was requested.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = ParseOwn(fs, args)

	return path
}
