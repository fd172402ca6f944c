package cnpj

// LegacyOverrides are identifiers whose verdict is fixed regardless of
// the checksum. Fixture data generated before checksum validation
// relies on them.
var LegacyOverrides = map[string]bool{
	"33453678000100": true,
	"12345678000195": false,
}

// Verdict is the outcome of validating one identifier
type Verdict struct {
	Valid      bool   `json:"valid"`
	Digits     string `json:"digits"`
	Formatted  string `json:"formatted,omitempty"`
	Overridden bool   `json:"overridden,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Validator checks identifiers against the checksum and an optional
// override table
type Validator struct {
	overrides map[string]bool
}

// Option configures a Validator
type Option func(*Validator)

// WithOverrides installs a fixed verdict table keyed by 14-digit identifier
func WithOverrides(overrides map[string]bool) Option {
	return func(v *Validator) {
		v.overrides = make(map[string]bool, len(overrides))
		for k, valid := range overrides {
			v.overrides[Digits(k)] = valid
		}
	}
}

// WithLegacyOverrides installs LegacyOverrides
func WithLegacyOverrides() Option {
	return WithOverrides(LegacyOverrides)
}

// NewValidator creates a validator. Without options it applies the
// checksum only.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks an identifier. Length and uniform-digit failures are
// never overridden.
func (v *Validator) Validate(id string) Verdict {
	digits := Digits(id)
	verdict := Verdict{Digits: digits}

	err := Check(digits)
	if err == ErrLength || err == ErrUniform {
		verdict.Reason = err.Error()
		return verdict
	}
	verdict.Formatted = Format(digits)

	if valid, ok := v.overrides[digits]; ok {
		verdict.Valid = valid
		verdict.Overridden = true
		if !valid {
			verdict.Reason = "identifier is on the override table"
		}
		return verdict
	}

	verdict.Valid = err == nil
	if err != nil {
		verdict.Reason = err.Error()
	}
	return verdict
}

// IsValid is a shorthand for Validate(id).Valid
func (v *Validator) IsValid(id string) bool {
	return v.Validate(id).Valid
}
