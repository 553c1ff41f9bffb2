package command

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Schema returns the JSON schema of a Command.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Command{})
}

// Interpreter turns a natural language message into a command map, in the format Decode
// accepts. The recent session history is given for context.
type Interpreter interface {
	Interpret(ctx context.Context, message string, history []Entry) (map[string]interface{}, error)
}

// ErrNoInterpreter is returned by Chat when no Interpreter is configured.
var ErrNoInterpreter = errors.New("no natural language interpreter configured")

// Chat interprets message with interp and dispatches the resulting command in session.
func (d *Dispatcher) Chat(ctx context.Context, interp Interpreter, session, message string) (*Result, error) {
	if interp == nil {
		return nil, ErrNoInterpreter
	}
	if session == "" {
		session = d.history.NewSession()
	}
	raw, err := interp.Interpret(ctx, message, d.history.Entries(session))
	if err != nil {
		return nil, errors.Wrap(err, "cannot interpret message")
	}
	cmd, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	cmd.Session = session
	return d.Dispatch(ctx, cmd)
}
