package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	copyFlagTypeName            = "copy"
	invalidCopyFlagValueMessage = "invalid copy flag value '%s'"
)

var (
	trueCopyFlagLiterals = map[string]struct{}{
		"":     {},
		"true": {},
		"t":    {},
		"1":    {},
		"yes":  {},
		"y":    {},
	}
	falseCopyFlagLiterals = map[string]struct{}{
		"false": {},
		"f":     {},
		"0":     {},
		"no":    {},
		"n":     {},
	}
)

func interpretCopyFlagLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if _, matches := trueCopyFlagLiterals[normalized]; matches {
		return true, true
	}
	if _, matches := falseCopyFlagLiterals[normalized]; matches {
		return false, true
	}
	return false, false
}

type copyFlagValue struct {
	target *bool
}

func (value *copyFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	booleanValue, ok := interpretCopyFlagLiteral(input)
	if !ok {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	*value.target = booleanValue
	return nil
}

func (value *copyFlagValue) String() string {
	if value == nil || value.target == nil {
		return "false"
	}
	if *value.target {
		return "true"
	}
	return "false"
}

func (value *copyFlagValue) Type() string {
	return copyFlagTypeName
}

// registerCopyFlag installs --copy as an optional-value boolean so that a
// bare --copy enables clipboard output.
func registerCopyFlag(flagSet *pflag.FlagSet, target *bool) {
	if flagSet == nil || target == nil {
		return
	}
	*target = false
	flagSet.Var(&copyFlagValue{target: target}, copyFlagName, copyFlagDescription)
	if lookup := flagSet.Lookup(copyFlagName); lookup != nil {
		lookup.NoOptDefVal = "true"
	}
}
