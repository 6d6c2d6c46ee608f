package forwarding

import (
	"encoding/json"
	"fmt"

	"github.com/c360/semfwd/matching"
)

// Property names and the members of their table entries.
const (
	PropertyForwardingTable = "forwarding_table"
	PropertyInputMembers    = "input_members"

	MemberInput  = "input"
	MemberOutput = "output"
	MemberField  = "member"
)

// Properties maps a property name to its JSON text.
type Properties map[string]string

// Strategy selects how the routing key is computed.
type Strategy string

const (
	StrategyByInputName  Strategy = "by_input_name"
	StrategyByInputValue Strategy = "by_input_value"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(name); s {
	case StrategyByInputName, StrategyByInputValue:
		return s, nil
	default:
		return "", &ConfigError{Property: "strategy", Reason: fmt.Sprintf("unknown strategy %q", name)}
	}
}

// ParseTable builds a table from a JSON array of objects. Every object must
// carry non-empty string members keyMember (the pattern) and valueMember (the
// destination). Any malformed entry rejects the whole table.
func ParseTable(property, text, keyMember, valueMember string) (*matching.Table, error) {
	return parseTable(property, text, keyMember, valueMember, nil)
}

func parseTable(property, text, keyMember, valueMember string,
	onAdd func(matching.Entry, bool),
) (*matching.Table, error) {
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &ConfigError{Property: property, Reason: "failed to parse JSON: " + err.Error()}
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, &ConfigError{Property: property, Reason: "property must contain a JSON array"}
	}

	type pair struct{ key, value string }
	pairs := make([]pair, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &ConfigError{Property: property, Index: i, Reason: "table entries must be JSON objects"}
		}
		key, err := stringMember(property, obj, keyMember, i)
		if err != nil {
			return nil, err
		}
		value, err := stringMember(property, obj, valueMember, i)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{key, value})
	}

	table := matching.New()
	for _, p := range pairs {
		entry, added := table.Add(p.key, p.value)
		if onAdd != nil {
			onAdd(entry, added)
		}
	}
	return table, nil
}

func stringMember(property string, obj map[string]any, member string, index int) (string, error) {
	raw, ok := obj[member]
	if !ok {
		return "", &ConfigError{Property: property, Member: member, Index: index,
			Reason: "a table entry is missing a required member"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &ConfigError{Property: property, Member: member, Index: index,
			Reason: "value must be a string"}
	}
	if s == "" {
		return "", &ConfigError{Property: property, Member: member, Index: index,
			Reason: "value must be non-empty"}
	}
	return s, nil
}

// Tables holds the tables a strategy is configured with. Members is nil
// for StrategyByInputName.
type Tables struct {
	Forwarding *matching.Table
	Members    *matching.Table
}

// ParseProperties reads forwarding_table and, for StrategyByInputValue,
// input_members from props. A missing required property is a ConfigError.
func ParseProperties(strategy Strategy, props Properties) (Tables, error) {
	return parseProperties(strategy, props, nil)
}

func parseProperties(strategy Strategy, props Properties,
	onAdd func(property string, entry matching.Entry, added bool),
) (Tables, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return Tables{}, err
	}

	load := func(property, keyMember, valueMember string) (*matching.Table, error) {
		text, err := props.requiredProperty(property)
		if err != nil {
			return nil, err
		}
		var hook func(matching.Entry, bool)
		if onAdd != nil {
			hook = func(entry matching.Entry, added bool) { onAdd(property, entry, added) }
		}
		return parseTable(property, text, keyMember, valueMember, hook)
	}

	var tables Tables
	var err error
	if tables.Forwarding, err = load(PropertyForwardingTable, MemberInput, MemberOutput); err != nil {
		return Tables{}, err
	}
	if strategy == StrategyByInputValue {
		if tables.Members, err = load(PropertyInputMembers, MemberInput, MemberField); err != nil {
			return Tables{}, err
		}
	}
	return tables, nil
}

// requiredProperty returns the text of a property or an error naming it.
func (p Properties) requiredProperty(name string) (string, error) {
	text, ok := p[name]
	if !ok {
		return "", &ConfigError{Property: name, Reason: "required property not found"}
	}
	return text, nil
}
