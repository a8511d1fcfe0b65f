// Package commands maps named MRR operations onto signed API calls.
//
// Each Command is data: a verb, a path template and the body parameters it
// accepts. Front ends (the CLI, scripts) look commands up by group and name
// and hand user input to BuildPath and BuildParams; nothing here knows about
// how input was collected.
//
// Path templates use {name} placeholders:
//
//	/rig/{ids}/pool
//
// Placeholders named "ids" or "rigids" accept several IDs joined with ';'
// (commas are converted), which the API treats as a batch.
package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tjfontaine/mrr-go/internal/api/mrr"
)

// Kind is the JSON type a parameter is converted to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Param is one body field of a command.
type Param struct {
	// Name is the JSON key sent to the API, e.g. "rate.type".
	Name     string
	Kind     Kind
	Usage    string
	Required bool
}

// FlagName is Name made safe for command-line flags.
func (p Param) FlagName() string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(p.Name)
}

// Command describes one API operation.
type Command struct {
	Group  string
	Name   string
	Usage  string
	Method string
	Path   string
	Params []Param
}

// ID is "group name", or just the name for ungrouped commands.
func (c Command) ID() string {
	if c.Group == "" {
		return c.Name
	}
	return c.Group + " " + c.Name
}

// PathArgs lists the placeholders in Path, in order.
func (c Command) PathArgs() []string {
	var args []string
	rest := c.Path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return args
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return args
		}
		args = append(args, rest[open+1:open+end])
		rest = rest[open+end+1:]
	}
}

// BuildPath fills the placeholders of Path from args.
func (c Command) BuildPath(args map[string]string) (string, error) {
	path := c.Path
	for _, name := range c.PathArgs() {
		v := strings.TrimSpace(args[name])
		if v == "" {
			return "", fmt.Errorf("%s: missing path argument %q", c.ID(), name)
		}
		if strings.ContainsAny(v, "/?#%{} \t") {
			return "", fmt.Errorf("%s: invalid value %q for %q", c.ID(), v, name)
		}
		if isMultiID(name) {
			v = strings.ReplaceAll(v, ",", ";")
		}
		path = strings.Replace(path, "{"+name+"}", v, 1)
	}
	return path, nil
}

// BuildParams converts raw string input into the JSON body. Empty optional
// values are left out.
func (c Command) BuildParams(raw map[string]string) (mrr.Params, error) {
	params := mrr.Params{}
	for _, p := range c.Params {
		v, ok := raw[p.Name]
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			if p.Required {
				return nil, fmt.Errorf("%s: missing required parameter %q", c.ID(), p.Name)
			}
			continue
		}

		switch p.Kind {
		case KindInt:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %q: %q is not an integer", c.ID(), p.Name, v)
			}
			params[p.Name] = n
		case KindFloat:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %q: %q is not a number", c.ID(), p.Name, v)
			}
			params[p.Name] = f
		case KindBool:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %q: %q is not a boolean", c.ID(), p.Name, v)
			}
			params[p.Name] = b
		default:
			params[p.Name] = v
		}
	}

	for name := range raw {
		if !c.hasParam(name) {
			return nil, fmt.Errorf("%s: unknown parameter %q", c.ID(), name)
		}
	}
	return params, nil
}

func (c Command) hasParam(name string) bool {
	for _, p := range c.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func isMultiID(name string) bool {
	return name == "ids" || name == "rigids"
}

// Registry is a lookup table of commands keyed by ID.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Command
}

// NewRegistry builds a registry from cmds. It panics on duplicates or
// malformed definitions, which are programming errors.
func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{byID: make(map[string]Command, len(cmds))}
	for _, c := range cmds {
		r.Register(c)
	}
	return r
}

// Register adds a command. Panics if the ID is taken or the definition is invalid.
func (r *Registry) Register(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.Name == "" {
		panic("command name cannot be empty")
	}
	if !strings.HasPrefix(c.Path, "/") {
		panic(fmt.Sprintf("command %q: path must start with /", c.ID()))
	}
	switch c.Method {
	case "GET", "POST", "PUT", "DELETE":
	default:
		panic(fmt.Sprintf("command %q: unsupported method %q", c.ID(), c.Method))
	}
	if _, exists := r.byID[c.ID()]; exists {
		panic(fmt.Sprintf("command %q already registered", c.ID()))
	}
	r.byID[c.ID()] = c
}

// Lookup finds a command by group and name. Use an empty group for
// top-level commands.
func (r *Registry) Lookup(group, name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id := name
	if group != "" {
		id = group + " " + name
	}
	c, ok := r.byID[id]
	return c, ok
}

// All returns every command sorted by group, then name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Groups returns the distinct non-empty groups, sorted.
func (r *Registry) Groups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, c := range r.All() {
		if c.Group != "" && !seen[c.Group] {
			seen[c.Group] = true
			groups = append(groups, c.Group)
		}
	}
	return groups
}
