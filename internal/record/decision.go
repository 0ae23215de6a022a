package record

// DefaultDecisionStatus is the status given to decisions saved without one.
const DefaultDecisionStatus = "proposed"

// Decision is a recorded decision.
type Decision struct {
	ID            string  `json:"id" yaml:"id"`
	Title         string  `json:"title" yaml:"title"`
	Body          string  `json:"body" yaml:"body"`
	DecisionMaker string  `json:"decision_maker" yaml:"decision_maker"`
	Principle     *string `json:"principle,omitempty" yaml:"principle,omitempty"`
	Scope         *string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Status        string  `json:"status" yaml:"status"`
}

// DecisionType describes Decision records.
var DecisionType = &Type{
	Name:       "decision",
	PrimaryKey: "id",
	Fields: []Field{
		{Name: "id", Kind: KindString},
		{Name: "title", Kind: KindString},
		{Name: "body", Kind: KindString},
		{Name: "decision_maker", Kind: KindString},
		{Name: "principle", Kind: KindString, Optional: true},
		{Name: "scope", Kind: KindString, Optional: true},
		{Name: "status", Kind: KindString},
	},
}

func init() {
	DecisionType.New = func(values map[string]any) (Record, error) {
		return NewDecision(values)
	}
}

// RecordType implements Record.
func (d Decision) RecordType() *Type {
	return DecisionType
}

// Values implements Record.
func (d Decision) Values() map[string]any {
	return map[string]any{
		"id":             d.ID,
		"title":          d.Title,
		"body":           d.Body,
		"decision_maker": d.DecisionMaker,
		"principle":      ptrValue(d.Principle),
		"scope":          ptrValue(d.Scope),
		"status":         d.status(),
	}
}

// NewDecision builds a Decision from logical field values.
func NewDecision(values map[string]any) (Decision, error) {
	var (
		d   Decision
		err error
	)
	if err := checkKnown(DecisionType, values); err != nil {
		return Decision{}, err
	}
	if d.ID, err = stringValue(values, "id"); err != nil {
		return Decision{}, err
	}
	if d.Title, err = stringValue(values, "title"); err != nil {
		return Decision{}, err
	}
	if d.Body, err = stringValue(values, "body"); err != nil {
		return Decision{}, err
	}
	if d.DecisionMaker, err = stringValue(values, "decision_maker"); err != nil {
		return Decision{}, err
	}
	if d.Principle, err = optionalString(values, "principle"); err != nil {
		return Decision{}, err
	}
	if d.Scope, err = optionalString(values, "scope"); err != nil {
		return Decision{}, err
	}
	if d.Status, err = stringValue(values, "status"); err != nil {
		return Decision{}, err
	}
	if d.Status == "" {
		d.Status = DefaultDecisionStatus
	}
	return d, nil
}

func (d Decision) status() string {
	if d.Status == "" {
		return DefaultDecisionStatus
	}
	return d.Status
}
