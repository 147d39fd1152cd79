package cmd

import "github.com/spf13/pflag"

// outputFlags are shared by the commands that print response bodies.
type outputFlags struct {
	jq      string
	compact bool
}

func addOutputFlags(fs *pflag.FlagSet, o *outputFlags) {
	fs.StringVar(&o.jq, "jq", "", "Filter the JSON response through a jq expression")
	fs.BoolVar(&o.compact, "compact", false, "Print compact JSON instead of pretty-printed")
}
