package prompt

import (
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// Choice is one line of a Select prompt.
type Choice struct {
	Name     string
	Detail   string
	Selected bool
	// Action marks control entries such as "Done" that are not catalog rows.
	Action bool
}

// Mark is the check box shown in front of a choice.
func (c Choice) Mark() string {
	switch {
	case c.Action:
		return "   "
	case c.Selected:
		return "[x]"
	default:
		return "[ ]"
	}
}

// Chooser asks for one of items and returns its index.
type Chooser interface {
	Choose(label string, items []Choice, cursor int) (int, error)
}

// Select is a Chooser backed by a promptui list.
type Select struct {
	In   io.ReadCloser
	Out  io.WriteCloser
	Size int
}

var templates = &promptui.SelectTemplates{
	Label:    "{{ . }}?",
	Active:   "➜  {{ .Mark }} {{ if .Action }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }} {{ .Detail | green }}{{ end }}",
	Inactive: "   {{ .Mark }} {{ if .Action }}{{ .Name | faint | green }}{{ else }}{{ .Name }} {{ .Detail | cyan }}{{ end }}",
	Selected: "{{ .Name | bold }}",
}

func (s *Select) Choose(label string, items []Choice, cursor int) (int, error) {
	size := s.Size
	if size <= 0 {
		size = 10
	}
	p := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     items,
		Templates: templates,
		Size:      size,
		CursorPos: cursor,
		Searcher:  Searcher(items),
		Stdin:     s.In,
		Stdout:    s.Out,
	}
	i, _, err := p.Run()
	return i, err
}

// Searcher matches input against the choice name, ignoring case and spaces.
func Searcher(items []Choice) func(input string, index int) bool {
	return func(input string, index int) bool {
		name := squash(items[index].Name)
		return strings.Contains(name, squash(input))
	}
}

func squash(s string) string {
	return strings.Replace(strings.ToLower(s), " ", "", -1)
}

// Canceled reports whether err means the user backed out of the prompt.
func Canceled(err error) bool {
	return err == promptui.ErrInterrupt || err == promptui.ErrEOF || err == promptui.ErrAbort
}

// NopCloser wraps w so promptui does not close the underlying stream.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
