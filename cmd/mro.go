package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/calyx-lang/calyx/internal/log"
	"github.com/calyx-lang/calyx/object"
	"github.com/calyx-lang/calyx/object/objerr"
	"github.com/calyx-lang/calyx/util"
	"github.com/spf13/cobra"
)

var MroCmd = &cobra.Command{
	Use:          "mro file.cx",
	Short:        "Print the method resolution order of every class declared in a file",
	RunE:         runMro,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var logLevel *int

func init() {
	logLevel = MroCmd.PersistentFlags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runMro(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*logLevel))

	declared, err := loadHierarchy(args[0])
	if err != nil {
		return err
	}
	for _, t := range declared {
		names := util.CollectMap(slices.Values(t.MRO()), (*object.TypeObject).Name)
		fmt.Printf("%s: %s\n", t.Name(), strings.Join(names, " -> "))
	}
	return nil
}

func loadHierarchy(path string) ([]*object.TypeObject, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read declarations: %w", err)
	}
	return buildHierarchy(string(contents))
}

// buildHierarchy builds a class hierarchy out of declaration lines of the form
//
//	class D(A, B)
//	legacy Old(Older)
//
// A class with no bases derives from 'object' unless declared legacy.
// A bad declaration does not stop the walk: every error is collected and
// reported at once, and classes that failed to build stay unknown to the
// lines after them.
func buildHierarchy(contents string) ([]*object.TypeObject, error) {
	h := object.NewHierarchy()
	byName := map[string]*object.TypeObject{"object": h.Object()}
	var declared []*object.TypeObject
	var errs *objerr.Errors

	badLine := func(format string, args ...any) {
		errs = errs.With(objerr.New(objerr.Unclassified{From: fmt.Errorf(format, args...)}))
	}

	for n, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		legacy := false
		switch {
		case strings.HasPrefix(line, "class "):
			line = strings.TrimPrefix(line, "class ")
		case strings.HasPrefix(line, "legacy "):
			line = strings.TrimPrefix(line, "legacy ")
			legacy = true
		default:
			badLine("line %d: expected 'class' or 'legacy' declaration", n+1)
			continue
		}

		name, rest := util.StringTakeUntil(line, '(')
		name = strings.TrimSpace(name)
		if name == "" {
			badLine("line %d: missing class name", n+1)
			continue
		}
		var bases []*object.TypeObject
		missingBase := false
		for _, baseName := range strings.Split(strings.TrimSuffix(rest, ")"), ",") {
			baseName = strings.TrimSpace(baseName)
			if baseName == "" {
				continue
			}
			base, ok := byName[baseName]
			if !ok {
				badLine("line %d: unknown base '%s'", n+1, baseName)
				missingBase = true
				continue
			}
			bases = append(bases, base)
		}
		if missingBase {
			continue
		}
		if len(bases) == 0 && !legacy {
			bases = []*object.TypeObject{h.Object()}
		}

		var t *object.TypeObject
		var err error
		if legacy {
			t, err = h.NewLegacyType(name, bases, nil)
		} else {
			t, err = h.NewType(name, bases, nil)
		}
		if err != nil {
			var objErr objerr.ObjError
			if errors.As(err, &objErr) {
				errs = errs.With(objErr)
			} else {
				badLine("line %d: %v", n+1, err)
			}
			continue
		}
		byName[name] = t
		declared = append(declared, t)
	}

	if errs.HasError() {
		sb := &strings.Builder{}
		for _, objErr := range errs.Errors() {
			sb.WriteString("\n")
			sb.WriteString(objerr.FormatWithCode(objErr))
		}
		return nil, fmt.Errorf("found %d errors in the declarations:%s", len(errs.Errors()), sb.String())
	}
	return declared, nil
}
