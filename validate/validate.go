// Package validate runs the semantic checks of profiles and device bindings.
//
// Every rule is an expr-lang expression compiled once against a typed
// environment. A violated rule yields a Message tagged with the scope it
// concerns, so reports can attribute messages to axes without positional
// bookkeeping.
package validate

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/timzifer/accelconf/settings"
)

// Scope tells which part of an entity a message concerns.
type Scope string

const (
	ScopeX       Scope = "x"
	ScopeY       Scope = "y"
	ScopeProfile Scope = "profile"
	ScopeDevice  Scope = "device"
)

// Message is a single violated rule.
type Message struct {
	Scope Scope
	Text  string
}

// ProfileResult holds the messages of one profile in emission order:
// x-axis first, then y-axis, then profile-level.
type ProfileResult struct {
	Messages []Message
}

// Empty reports whether the profile passed every rule.
func (r ProfileResult) Empty() bool { return len(r.Messages) == 0 }

// Cuts returns the number of x-axis messages and the number of x- and
// y-axis messages combined. Messages from lastY on are profile-level.
func (r ProfileResult) Cuts() (lastX, lastY int) {
	for _, msg := range r.Messages {
		switch msg.Scope {
		case ScopeX:
			lastX++
			lastY++
		case ScopeY:
			lastY++
		}
	}
	return lastX, lastY
}

// Texts returns the message texts in order.
func (r ProfileResult) Texts() []string { return texts(r.Messages) }

// DeviceResult holds the messages of one device binding.
type DeviceResult struct {
	Messages []Message
}

// Empty reports whether the binding passed every rule.
func (r DeviceResult) Empty() bool { return len(r.Messages) == 0 }

// Texts returns the message texts in order.
func (r DeviceResult) Texts() []string { return texts(r.Messages) }

// Emit replays messages through a callback sink, one call per message.
func Emit(messages []Message, sink func(string)) {
	if sink == nil {
		return
	}
	for _, msg := range messages {
		sink(msg.Text)
	}
}

func texts(messages []Message) []string {
	out := make([]string, len(messages))
	for i, msg := range messages {
		out[i] = msg.Text
	}
	return out
}

type rule struct {
	source  string
	message string
	program *vm.Program
}

// Validator evaluates the compiled rule tables. It holds no per-call state
// and is safe for concurrent use.
type Validator struct {
	args    []rule
	profile []rule
	device  []rule
}

type tables struct {
	args    []Rule
	profile []Rule
	device  []Rule
}

// Option adds rules to a Validator. Added rules run after the built-in
// ones of the same table.
type Option func(*tables)

// WithAxisRules adds rules evaluated against each axis's curve parameters.
func WithAxisRules(rules ...Rule) Option {
	return func(t *tables) { t.args = append(t.args, rules...) }
}

// WithProfileRules adds profile-level rules.
func WithProfileRules(rules ...Rule) Option {
	return func(t *tables) { t.profile = append(t.profile, rules...) }
}

// WithDeviceRules adds device binding rules.
func WithDeviceRules(rules ...Rule) Option {
	return func(t *tables) { t.device = append(t.device, rules...) }
}

// New compiles the built-in rule tables plus any rules added by opts.
func New(opts ...Option) (*Validator, error) {
	t := tables{
		args:    append([]Rule(nil), argsRules...),
		profile: append([]Rule(nil), profileRules...),
		device:  append([]Rule(nil), deviceRules...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&t)
		}
	}
	args, err := compileRules(t.args, argsEnv{})
	if err != nil {
		return nil, fmt.Errorf("compile axis rules: %w", err)
	}
	profile, err := compileRules(t.profile, profileEnv{})
	if err != nil {
		return nil, fmt.Errorf("compile profile rules: %w", err)
	}
	device, err := compileRules(t.device, deviceEnv{})
	if err != nil {
		return nil, fmt.Errorf("compile device rules: %w", err)
	}
	return &Validator{args: args, profile: profile, device: device}, nil
}

var defaultValidator = sync.OnceValues(func() (*Validator, error) { return New() })

// Default returns a shared validator with the built-in rules. It panics if
// the rule tables do not compile.
func Default() *Validator {
	v, err := defaultValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func compileRules(table []Rule, env interface{}) ([]rule, error) {
	rules := make([]rule, 0, len(table))
	for _, r := range table {
		program, err := expr.Compile(r.Expr, expr.Env(env), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Expr, err)
		}
		rules = append(rules, rule{source: r.Expr, message: r.Message, program: program})
	}
	return rules, nil
}

// Profile checks p. ArgsY is checked in combined mode as well since it is
// stored in the driver record either way.
func (v *Validator) Profile(p settings.Profile) ProfileResult {
	var messages []Message
	messages = appendViolations(messages, v.args, newArgsEnv(p.ArgsX), ScopeX)
	messages = appendViolations(messages, v.args, newArgsEnv(p.ArgsY), ScopeY)
	messages = appendViolations(messages, v.profile, newProfileEnv(p), ScopeProfile)
	return ProfileResult{Messages: messages}
}

// Device checks a device binding.
func (v *Validator) Device(d settings.DeviceSettings) DeviceResult {
	return DeviceResult{Messages: appendViolations(nil, v.device, newDeviceEnv(d), ScopeDevice)}
}

func appendViolations(dst []Message, rules []rule, env interface{}, scope Scope) []Message {
	for _, r := range rules {
		out, err := expr.Run(r.program, env)
		if err != nil {
			dst = append(dst, Message{Scope: scope, Text: fmt.Sprintf("%s (rule %q failed: %v)", r.message, r.source, err)})
			continue
		}
		if ok, _ := out.(bool); !ok {
			dst = append(dst, Message{Scope: scope, Text: r.message})
		}
	}
	return dst
}
