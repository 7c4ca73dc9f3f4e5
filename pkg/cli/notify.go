package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"textbook-admin/internal/ui"
)

// Notifier is the terminal counterpart of the console toast: one line on
// stderr prefixed with a glyph for the message type.
type Notifier struct {
	w     io.Writer
	quiet bool
}

func (a *app) notifier(cmd *cobra.Command) *Notifier {
	return &Notifier{w: cmd.ErrOrStderr(), quiet: a.quiet}
}

// Show prints message unless the notifier is quiet. Errors and warnings are
// printed even in quiet mode.
func (n *Notifier) Show(message string, t ui.MessageType) {
	if n.quiet && (t == ui.MessageSuccess || t == ui.MessageInfo) {
		return
	}
	_, _ = fmt.Fprintf(n.w, "%s %s\n", glyph(t), message)
}

func glyph(t ui.MessageType) string {
	switch t {
	case ui.MessageSuccess:
		return "✔"
	case ui.MessageError:
		return "✖"
	case ui.MessageWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// confirmAction asks a y/N question on out and reads the answer from in.
// assumeYes skips the prompt.
func confirmAction(in io.Reader, out io.Writer, prompt string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "是":
		return true, nil
	default:
		return false, nil
	}
}

// bodyFlags are the --data/--file pair accepted by create and update
// commands.
type bodyFlags struct {
	data string
	file string
}

func (b *bodyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.data, "data", "", "Request body as a JSON object")
	cmd.Flags().StringVar(&b.file, "file", "", "Read the JSON request body from a file (- for stdin)")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
	cmd.MarkFlagsOneRequired("data", "file")
}

// read returns the body as an object.
func (b *bodyFlags) read(stdin io.Reader) (map[string]any, error) {
	raw := []byte(b.data)
	switch {
	case b.file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = data
	case b.file != "":
		data, err := os.ReadFile(b.file)
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		raw = data
	}

	var body map[string]any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("request body must be a JSON object: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}
	return body, nil
}

// stringFields flattens body into the string map form validation rules read.
func stringFields(body map[string]any) map[string]string {
	out := make(map[string]string, len(body))
	for k, v := range body {
		if v == nil {
			continue
		}
		out[k] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
