package referenceframe

import (
	"bytes"
	"encoding/json"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"go.viam.com/rx160/utils"
)

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name         string          `json:"name"`
	KinParamType string          `json:"kinematic_param_type,omitempty"`
	DHParams     []DHParamConfig `json:"dhParams"`
	Links        []LinkConfig    `json:"links"`
}

// DHParamConfig is the JSON form of a DHParam.
type DHParamConfig struct {
	ID     string `json:"id"`
	Parent string `json:"parent"`
	Sigma  int    `json:"sigma"`
	A      Scalar `json:"a"`
	Alpha  Scalar `json:"alpha"`
	R      Scalar `json:"r"`
}

// LinkConfig is the JSON form of a LinkGeometry. It decodes from either an object or a
// [horizontal, vertical, depth] array.
type LinkConfig struct {
	ID         string `json:"id,omitempty"`
	Horizontal Scalar `json:"horizontal"`
	Vertical   Scalar `json:"vertical"`
	Depth      Scalar `json:"depth"`
}

// Scalar is a float64 that may also be written as a string expression such as "pi/2".
type Scalar float64

// UnmarshalJSON accepts a JSON number or a numeric string.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, ok, err := utils.ParseNumber(raw)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("missing numeric value %s", string(data))
	}
	*s = Scalar(v)
	return nil
}

// UnmarshalJSON decodes either form of a link.
func (lc *LinkConfig) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var triple []Scalar
		if err := json.Unmarshal(trimmed, &triple); err != nil {
			return err
		}
		if len(triple) != 3 {
			return errors.Errorf("link array must be [horizontal, vertical, depth], got %d values", len(triple))
		}
		*lc = LinkConfig{Horizontal: triple[0], Vertical: triple[1], Depth: triple[2]}
		return nil
	}
	type plain LinkConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*lc = LinkConfig(p)
	return nil
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}
	cfg := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName)
}

// ParseModelJSONFile will read a given file, substitute environment variables and then parse the
// contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model, error) {
	jsonData, err := envsubst.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// ParseConfig converts the config into a validated Model named modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (*Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	switch cfg.KinParamType {
	case "DH", "":
	default:
		return nil, errors.Errorf("unsupported param type: %s, only DH is supported", cfg.KinParamType)
	}

	rows, err := sortDHParams(cfg.DHParams)
	if err != nil {
		return nil, err
	}
	model := &Model{Name: modelName, DH: make(DHTable, 0, len(rows)), Links: make(Links, 0, len(cfg.Links))}
	for _, row := range rows {
		model.DH = append(model.DH, DHParam{
			ID:     row.ID,
			Parent: row.Parent,
			Sigma:  row.Sigma,
			A:      float64(row.A),
			Alpha:  float64(row.Alpha),
			R:      float64(row.R),
		})
	}
	for _, link := range cfg.Links {
		model.Links = append(model.Links, LinkGeometry{
			ID:         link.ID,
			Horizontal: float64(link.Horizontal),
			Vertical:   float64(link.Vertical),
			Depth:      float64(link.Depth),
		})
	}
	if err := model.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid model %q", modelName)
	}
	return model, nil
}

// ModelConfig returns the JSON form of the model.
func (m *Model) ModelConfig() *ModelConfigJSON {
	cfg := &ModelConfigJSON{Name: m.Name, KinParamType: "DH"}
	for _, row := range m.DH {
		cfg.DHParams = append(cfg.DHParams, DHParamConfig{
			ID: row.ID, Parent: row.Parent, Sigma: row.Sigma,
			A: Scalar(row.A), Alpha: Scalar(row.Alpha), R: Scalar(row.R),
		})
	}
	for _, l := range m.Links {
		cfg.Links = append(cfg.Links, LinkConfig{
			ID: l.ID, Horizontal: Scalar(l.Horizontal), Vertical: Scalar(l.Vertical), Depth: Scalar(l.Depth),
		})
	}
	return cfg
}

// MarshalJSON serializes the model in the same format UnmarshalModelJSON reads.
func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ModelConfig())
}

// sortDHParams orders rows from the base to the tool by following parent links. Rows without
// ids are kept in file order.
func sortDHParams(rows []DHParamConfig) ([]DHParamConfig, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	byID := make(map[string]DHParamConfig, len(rows))
	for _, row := range rows {
		if row.ID == "" {
			return rows, nil
		}
		if row.ID == World {
			return nil, errors.Errorf("dh row cannot use reserved name %q", World)
		}
		if _, dup := byID[row.ID]; dup {
			return nil, errors.Errorf("duplicate dh row id %q", row.ID)
		}
		byID[row.ID] = row
	}

	// the tool is the only row nobody names as parent
	ees := make(map[string]bool, len(rows))
	for id := range byID {
		ees[id] = true
	}
	for _, row := range rows {
		delete(ees, row.Parent)
	}
	if len(ees) != 1 {
		return nil, errors.Wrapf(ErrNeedOneEndEffector, "have %d", len(ees))
	}
	var curr string
	for id := range ees {
		curr = id
	}

	seen := map[string]bool{}
	ordered := make([]DHParamConfig, 0, len(rows))
	for {
		if seen[curr] {
			return nil, ErrCircularReference
		}
		seen[curr] = true
		row := byID[curr]
		ordered = append(ordered, row)
		if row.Parent == World || row.Parent == "" {
			break
		}
		if _, ok := byID[row.Parent]; !ok {
			return nil, NewFrameNotInListOfTransformsError(row.Parent)
		}
		curr = row.Parent
	}
	if len(ordered) != len(rows) {
		return nil, errors.Errorf("dh rows are not a single chain, %d of %d reachable from the tool", len(ordered), len(rows))
	}

	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered, nil
}
