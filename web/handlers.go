package web

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"goji.io/pat"

	"go.viam.com/rx160/command"
	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/render"
)

// ErrMissingJoints is returned when a request has no "joints".
var ErrMissingJoints = errors.New(`"joints" is required`)

type jointsRequest struct {
	Joints          []float64 `json:"joints"`
	JointVelocities []float64 `json:"joint_velocities,omitempty"`
	Twist           []float64 `json:"twist,omitempty"`
	View            string    `json:"view,omitempty"`
}

func (req *jointsRequest) validate() error {
	if req.Joints == nil {
		return ErrMissingJoints
	}
	return referenceframe.CheckJoints(req.Joints)
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type positionRequest struct {
	Position *point `json:"position"`
}

func (req *positionRequest) vector() (r3.Vector, error) {
	if req.Position == nil {
		return r3.Vector{}, errors.New(`"position" is required`)
	}
	return r3.Vector{X: req.Position.X, Y: req.Position.Y, Z: req.Position.Z}, nil
}

type chatRequest struct {
	Message string `json:"message"`
	Session string `json:"session,omitempty"`
}

func (svc *Service) handleCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := map[string]interface{}{}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&raw); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, errors.Wrap(err, "malformed request body"))
		return
	}
	cmd, err := command.Decode(raw)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	res, err := svc.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	svc.writeJSON(ctx, w, http.StatusOK, res)
}

func (svc *Service) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if svc.interpreter == nil {
		svc.writeError(ctx, w, http.StatusNotImplemented, command.ErrNoInterpreter)
		return
	}
	var req chatRequest
	if err := readJSON(w, r, &req); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	if req.Message == "" {
		svc.writeError(ctx, w, http.StatusBadRequest, errors.New(`"message" is required`))
		return
	}
	res, err := svc.dispatcher.Chat(ctx, svc.interpreter, req.Session, req.Message)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	svc.writeJSON(ctx, w, http.StatusOK, res)
}

func (svc *Service) handleForward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req jointsRequest
	if err := readJSON(w, r, &req); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	data, err := svc.dispatcher.Forward(req.Joints)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	svc.writeJSON(ctx, w, http.StatusOK, data)
}

func (svc *Service) handleInverse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req positionRequest
	if err := readJSON(w, r, &req); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	target, err := req.vector()
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	data, err := svc.dispatcher.Inverse(target)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	svc.writeJSON(ctx, w, http.StatusOK, data)
}

func (svc *Service) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req positionRequest
	if err := readJSON(w, r, &req); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	target, err := req.vector()
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	data, err := svc.dispatcher.Verify(target)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	svc.writeJSON(ctx, w, http.StatusOK, data)
}

func (svc *Service) handleJacobian(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req jointsRequest
	if err := readJSON(w, r, &req); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	data, err := svc.dispatcher.Jacobian(req.Joints, req.JointVelocities)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	svc.writeJSON(ctx, w, http.StatusOK, data)
}

func (svc *Service) handleInverseVelocity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req jointsRequest
	if err := readJSON(w, r, &req); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	data, err := svc.dispatcher.InverseVelocity(req.Joints, req.Twist)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	svc.writeJSON(ctx, w, http.StatusOK, data)
}

func (svc *Service) handleMatrices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req jointsRequest
	if err := readJSON(w, r, &req); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	data, err := svc.dispatcher.Matrices(req.Joints)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	svc.writeJSON(ctx, w, http.StatusOK, data)
}

func (svc *Service) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req jointsRequest
	if err := readJSON(w, r, &req); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	view, err := render.ParseView(req.View)
	if err != nil {
		svc.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	opts := render.DefaultOptions
	opts.Title = svc.dispatcher.Model().Name
	var buf bytes.Buffer
	if err := render.Pose(&buf, req.Joints, svc.dispatcher.Model().Links, view, opts); err != nil {
		svc.writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(buf.Bytes()); err != nil {
		svc.logger.CDebugw(ctx, "error writing image", "error", err)
	}
}

func (svc *Service) handleModel(w http.ResponseWriter, r *http.Request) {
	svc.writeJSON(r.Context(), w, http.StatusOK, svc.dispatcher.Model())
}

func (svc *Service) handleSchema(w http.ResponseWriter, r *http.Request) {
	svc.writeJSON(r.Context(), w, http.StatusOK, command.Schema())
}

func (svc *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := svc.dispatcher.History().Entries(pat.Param(r, "session"))
	if entries == nil {
		entries = []command.Entry{}
	}
	svc.writeJSON(r.Context(), w, http.StatusOK, entries)
}
