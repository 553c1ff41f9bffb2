package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// RemoteInterpreter asks an HTTP service hosting the language model to turn a message into a
// command. The service receives {"message", "history"} and answers with the command object.
type RemoteInterpreter struct {
	URL    string
	Client *http.Client
}

// NewRemoteInterpreter returns a RemoteInterpreter posting to url.
func NewRemoteInterpreter(url string, timeout time.Duration) *RemoteInterpreter {
	return &RemoteInterpreter{URL: url, Client: &http.Client{Timeout: timeout}}
}

type interpretRequest struct {
	Message string  `json:"message"`
	History []Entry `json:"history"`
}

// Interpret implements Interpreter.
func (ri *RemoteInterpreter) Interpret(ctx context.Context, message string, history []Entry) (map[string]interface{}, error) {
	body, err := json.Marshal(interpretRequest{Message: message, History: history})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ri.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "error creating interpreter request")
	}
	req.Header.Set("Content-Type", "application/json")

	client := ri.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		utils.UncheckedError(resp.Body.Close())
	}()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("interpreter returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	out := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "interpreter returned malformed json")
	}
	return out, nil
}
