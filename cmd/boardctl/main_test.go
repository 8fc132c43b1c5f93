package main

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNormalizeIDCommand(t *testing.T) {
	c := qt.New(t)

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"normalize-id", "user_0123456789abcdef0123456789abcdef"})

	c.Assert(root.Execute(), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "01234567-89ab-4def-a123-456789abcdef\n")
}

func TestNormalizeIDCommandRejectsMalformed(t *testing.T) {
	c := qt.New(t)

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"normalize-id", "user_xyz"})

	c.Assert(root.Execute(), qt.ErrorMatches, "invalid identifier format")
}

func TestRootListsCommands(t *testing.T) {
	c := qt.New(t)

	names := map[string]bool{}
	for _, cmd := range newRootCommand().Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"migrate", "seed", "recount", "normalize-id"} {
		c.Check(names[want], qt.IsTrue, qt.Commentf(want))
	}
}
