package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type OptionType int

const (
	OptionString OptionType = iota
	OptionInteger
	OptionBoolean
)

// Option declares one typed command argument.
type Option struct {
	Name     string
	Type     OptionType
	Required bool
}

// Options holds parsed argument values keyed by option name.
type Options map[string]interface{}

func (o Options) String(name string) string {
	v, _ := o[name].(string)
	return v
}

func (o Options) Int(name string) int {
	v, _ := o[name].(int)
	return v
}

// IntOr returns the integer option or def when it was not supplied.
func (o Options) IntOr(name string, def int) int {
	v, ok := o[name].(int)
	if !ok {
		return def
	}
	return v
}

func (o Options) Bool(name string) bool {
	v, _ := o[name].(bool)
	return v
}

// ParseOptions matches positional arguments against the command's
// declared options. Missing required options and values of the wrong
// type fail before any store access.
func ParseOptions(def *Definition, args []string) (Options, error) {
	opts := make(Options, len(def.Options))
	for i, opt := range def.Options {
		if i >= len(args) {
			if opt.Required {
				return nil, fmt.Errorf("missing required option %q", opt.Name)
			}
			continue
		}
		raw := strings.TrimSpace(args[i])
		switch opt.Type {
		case OptionString:
			opts[opt.Name] = raw
		case OptionInteger:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("option %q must be an integer", opt.Name)
			}
			opts[opt.Name] = n
		case OptionBoolean:
			b, err := parseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("option %q must be a boolean", opt.Name)
			}
			opts[opt.Name] = b
		}
	}
	if len(args) > len(def.Options) {
		return nil, fmt.Errorf("too many arguments")
	}
	return opts, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
