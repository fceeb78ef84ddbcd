// Package masking projects records down to the fields a viewer may see.
//
// The projection is an allow-list driven by a YAML table (see policy.yaml):
// a field added to the data model stays hidden until a role lists it.
package masking

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"propostas_service/internal/domain/entities"

	"gopkg.in/yaml.v3"
)

const (
	RoleClient            = "client"
	RoleInternal          = "internal"
	RoleInternalFinancial = "internal_financial"

	// FieldSignatureEnabled is derived, not stored.
	FieldSignatureEnabled = "signature_enabled"

	wildcard = "*"
)

var ErrInvalidPolicy = errors.New("invalid masking policy")

//go:embed policy.yaml
var defaultPolicyYAML []byte

// View is a masked projection ready to be serialized.
type View map[string]any

type policyFile struct {
	Roles map[string]struct {
		Fields []string `yaml:"fields"`
	} `yaml:"roles"`
}

// node is one level of the projection tree. A terminal node includes the
// whole value found at its path.
type node struct {
	terminal bool
	children map[string]*node
}

type rule struct {
	all    bool
	fields []string
	tree   *node
}

// Policy is immutable after construction and safe for concurrent use.
type Policy struct {
	rules map[string]rule
}

// DefaultPolicy returns the embedded policy table.
func DefaultPolicy() *Policy {
	p, err := ParsePolicy(defaultPolicyYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded masking policy: %v", err))
	}
	return p
}

// LoadPolicy reads a policy table from path, or the embedded default when
// path is empty.
func LoadPolicy(path string) (*Policy, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read masking policy: %w", err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (*Policy, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	if len(f.Roles) == 0 {
		return nil, fmt.Errorf("%w: no roles", ErrInvalidPolicy)
	}

	p := &Policy{rules: make(map[string]rule, len(f.Roles))}
	for role, def := range f.Roles {
		r := rule{tree: &node{}}
		for _, raw := range def.Fields {
			path := strings.TrimSpace(raw)
			if path == "" {
				return nil, fmt.Errorf("%w: empty field in role %s", ErrInvalidPolicy, role)
			}
			if path == wildcard {
				r.all = true
				continue
			}
			insert(r.tree, strings.Split(path, "."))
			r.fields = append(r.fields, path)
		}
		sort.Strings(r.fields)
		p.rules[role] = r
	}
	return p, nil
}

func insert(n *node, segments []string) {
	for _, seg := range segments {
		if n.terminal {
			return
		}
		if n.children == nil {
			n.children = map[string]*node{}
		}
		child, ok := n.children[seg]
		if !ok {
			child = &node{}
			n.children[seg] = child
		}
		n = child
	}
	// A shorter path covers everything below it.
	n.terminal = true
	n.children = nil
}

// RoleKey maps a viewer to its row in the policy table.
func RoleKey(v entities.Viewer) string {
	switch v.Role {
	case entities.ViewerRoleClient:
		return RoleClient
	case entities.ViewerRoleInternal:
		if v.Can(entities.CapabilityViewFinancial) {
			return RoleInternalFinancial
		}
		return RoleInternal
	}
	return ""
}

// AllowList returns the explicit paths of a role; nil for unknown roles.
func (p *Policy) AllowList(role string) []string {
	r, ok := p.rules[role]
	if !ok {
		return nil
	}
	if r.all {
		return []string{wildcard}
	}
	return append([]string(nil), r.fields...)
}

// Mask projects any JSON-serializable record for the viewer.
func (p *Policy) Mask(record any, viewer entities.Viewer) (View, error) {
	doc, err := toDocument(record)
	if err != nil {
		return nil, err
	}
	return p.project(doc, RoleKey(viewer)), nil
}

// MaskProposal adds the derived fields of a proposal before projecting it.
func (p *Policy) MaskProposal(prop entities.Proposal, viewer entities.Viewer) (View, error) {
	doc, err := toDocument(prop)
	if err != nil {
		return nil, err
	}
	doc[FieldSignatureEnabled] = prop.Status == entities.ProposalStatusEnviada
	return p.project(doc, RoleKey(viewer)), nil
}

func (p *Policy) project(doc map[string]any, role string) View {
	r, ok := p.rules[role]
	if !ok {
		return View{}
	}
	if r.all {
		return View(doc)
	}
	out, _ := projectValue(doc, r.tree).(map[string]any)
	if out == nil {
		return View{}
	}
	return View(out)
}

func projectValue(v any, n *node) any {
	if n.terminal {
		return v
	}
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n.children))
		for key, child := range n.children {
			field, ok := val[key]
			if !ok {
				continue
			}
			if projected := projectValue(field, child); projected != nil {
				out[key] = projected
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if projected := projectValue(item, n); projected != nil {
				out = append(out, projected)
			}
		}
		return out
	}
	// A scalar where the table expects structure is hidden.
	return nil
}

func toDocument(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("mask: encode record: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("mask: record is not an object: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
