package display

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"EnigmaNetz/Enigma-Capture-Console/internal/events"
)

// PacketEnv is what a display filter expression sees. Bare protocol names
// work as booleans, so "tcp && dst == '10.0.0.1'" is a valid filter.
type PacketEnv struct {
	Protocol    string `expr:"protocol"`
	Source      string `expr:"src"`
	Destination string `expr:"dst"`
	Length      int    `expr:"len"`
	Summary     string `expr:"summary"`

	TCP  bool `expr:"tcp"`
	UDP  bool `expr:"udp"`
	ICMP bool `expr:"icmp"`
	ARP  bool `expr:"arp"`
}

// Filter is a compiled display filter. A nil *Filter matches every packet.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles a display filter expression. An empty expression
// yields a nil filter.
func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}
	program, err := expr.Compile(expression, expr.Env(PacketEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile display filter '%s': %w", expression, err)
	}
	return &Filter{source: expression, program: program}, nil
}

// String returns the filter expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match reports whether ev passes the filter. Evaluation errors count as
// no match.
func (f *Filter) Match(ev events.PacketEvent) bool {
	if f == nil {
		return true
	}
	result, err := expr.Run(f.program, envFor(ev))
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

func envFor(ev events.PacketEvent) PacketEnv {
	proto := strings.ToUpper(ev.Protocol)
	return PacketEnv{
		Protocol:    ev.Protocol,
		Source:      ev.Source,
		Destination: ev.Destination,
		Length:      ev.Length,
		Summary:     ev.Summary,
		TCP:         proto == "TCP",
		UDP:         proto == "UDP",
		ICMP:        strings.HasPrefix(proto, "ICMP"),
		ARP:         proto == "ARP",
	}
}
