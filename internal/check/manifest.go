package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Manifest file names, in lookup order.
const (
	ManifestYAML = "check.yaml"
	ManifestTOML = "check.toml"
)

// manifestSchema is the closed CUE definition every manifest must satisfy.
const manifestSchema = `
#Path: string & != ""

#Case: {
	name?:        string & != ""
	description?: string
	output?:      #Path
	reference?:   #Path
	actual?:      #Path
	accuracy?:    number & >0
	dry_run_key?: string & != ""
}
`

// manifest mirrors #Case for decoding.
type manifest struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Output      string   `json:"output,omitempty"`
	Reference   string   `json:"reference,omitempty"`
	Actual      string   `json:"actual,omitempty"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	DryRunKey   string   `json:"dry_run_key,omitempty"`
}

// ManifestError is returned for a manifest that cannot be read or does not
// satisfy the schema.
type ManifestError struct {
	Path    string
	Message string
	Err     error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// LoadCase returns the case rooted at dir, applying its manifest if present.
// Without a manifest the defaults of DefaultCase apply unchanged.
func LoadCase(dir string) (Case, error) {
	c := DefaultCase(dir)

	yamlPath := filepath.Join(dir, ManifestYAML)
	tomlPath := filepath.Join(dir, ManifestTOML)
	hasYAML := fileExists(yamlPath)
	hasTOML := fileExists(tomlPath)

	switch {
	case hasYAML && hasTOML:
		return Case{}, &ManifestError{
			Path:    dir,
			Message: fmt.Sprintf("both %s and %s present; keep one", ManifestYAML, ManifestTOML),
		}
	case hasYAML:
		return applyManifest(c, yamlPath, decodeYAML)
	case hasTOML:
		return applyManifest(c, tomlPath, decodeTOML)
	}
	return c, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func decodeYAML(data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeTOML(data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func applyManifest(c Case, path string, decode func([]byte) (map[string]any, error)) (Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Case{}, &ManifestError{Path: path, Message: "failed to read manifest", Err: err}
	}

	raw, err := decode(data)
	if err != nil {
		return Case{}, &ManifestError{Path: path, Message: fmt.Sprintf("failed to parse manifest: %v", err), Err: err}
	}

	m, err := validateManifest(raw)
	if err != nil {
		return Case{}, &ManifestError{Path: path, Message: err.Error(), Err: err}
	}

	if m.Name != "" {
		c.Name = m.Name
	}
	c.Description = m.Description
	if m.Output != "" {
		c.Output = m.Output
	}
	if m.Reference != "" {
		c.Reference = m.Reference
	}
	if m.Actual != "" {
		c.Actual = m.Actual
	}
	if m.Accuracy != nil {
		c.Accuracy = *m.Accuracy
	}
	if m.DryRunKey != "" {
		c.DryRunKey = m.DryRunKey
	}
	return c, nil
}

// validateManifest unifies raw with #Case and decodes the result.
func validateManifest(raw map[string]any) (*manifest, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(manifestSchema)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Case"))

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.New("invalid manifest: " + strings.TrimSpace(cueerrors.Details(err, nil)))
	}

	var m manifest
	if err := unified.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
