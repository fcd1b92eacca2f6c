package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/rzbill/coinlog/internal/codec"
)

// Kind distinguishes ledger writes.
type Kind string

const (
	Earn  Kind = "earn"
	Spend Kind = "spend"
)

// Transaction is a validated ledger write.
type Transaction struct {
	PlayerID string
	Kind     Kind
	Amount   int64
}

// Delta is the signed amount recorded in the ledger.
func (t Transaction) Delta() int64 {
	if t.Kind == Spend {
		return -t.Amount
	}
	return t.Amount
}

// Fields is the record payload for the transaction.
func (t Transaction) Fields() map[string]any {
	return map[string]any{codec.AmountField: t.Delta()}
}

// Snapshot is a validated player state snapshot. Fields keeps every
// submitted key, player_id included.
type Snapshot struct {
	PlayerID string
	Fields   map[string]any
}

// Validator decodes request bodies against compiled JSON schemas.
type Validator struct {
	maxAmount     int64
	transaction   *jsonschema.Schema
	snapshot      *jsonschema.Schema
	profileCreate *jsonschema.Schema
	profileUpdate *jsonschema.Schema
}

// NewValidator compiles the request schemas. maxAmount bounds a single
// earn or spend.
func NewValidator(maxAmount int64) (*Validator, error) {
	if maxAmount <= 0 {
		return nil, fmt.Errorf("request: maxAmount must be positive")
	}
	v := &Validator{maxAmount: maxAmount}
	var err error
	if v.transaction, err = compile("transaction", fmt.Sprintf(transactionSchema, maxAmount)); err != nil {
		return nil, err
	}
	if v.snapshot, err = compile("snapshot", snapshotSchema); err != nil {
		return nil, err
	}
	if v.profileCreate, err = compile("profile-create", profileCreateSchema); err != nil {
		return nil, err
	}
	if v.profileUpdate, err = compile("profile-update", profileUpdateSchema); err != nil {
		return nil, err
	}
	return v, nil
}

// parse decodes body into a generic value and validates it against s.
func parse(s *jsonschema.Schema, body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, invalid("", "body is not valid JSON")
	}
	if dec.More() {
		return nil, invalid("", "body has trailing data")
	}
	if err := s.Validate(doc); err != nil {
		return nil, fromSchemaError(err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, invalid("", "body must be a JSON object")
	}
	return obj, nil
}

// Transaction validates an earn or spend body of the form {"amount": N}.
func (v *Validator) Transaction(kind Kind, playerID string, body []byte) (Transaction, error) {
	if kind != Earn && kind != Spend {
		return Transaction{}, invalid("kind", "must be earn or spend, got %q", kind)
	}
	if playerID == "" {
		return Transaction{}, invalid("player_id", "is required")
	}
	obj, err := parse(v.transaction, body)
	if err != nil {
		return Transaction{}, err
	}
	amount, ok := integer(obj["amount"])
	if !ok {
		return Transaction{}, invalid("amount", "must be an integer")
	}
	return Transaction{PlayerID: playerID, Kind: kind, Amount: amount}, nil
}

// NewTransaction applies the same rules as Transaction to an already typed
// amount.
func (v *Validator) NewTransaction(kind Kind, playerID string, amount int64) (Transaction, error) {
	if kind != Earn && kind != Spend {
		return Transaction{}, invalid("kind", "must be earn or spend, got %q", kind)
	}
	if playerID == "" {
		return Transaction{}, invalid("player_id", "is required")
	}
	if amount < 1 || amount > v.maxAmount {
		return Transaction{}, invalid("amount", "must be between 1 and %d", v.maxAmount)
	}
	return Transaction{PlayerID: playerID, Kind: kind, Amount: amount}, nil
}

// Snapshot validates a snapshot body; player_id may be a string or an integer.
func (v *Validator) Snapshot(body []byte) (Snapshot, error) {
	obj, err := parse(v.snapshot, body)
	if err != nil {
		return Snapshot{}, err
	}
	var id string
	switch p := obj["player_id"].(type) {
	case string:
		id = p
	case json.Number:
		id = p.String()
	}
	if id == "" {
		return Snapshot{}, invalid("player_id", "is required")
	}
	return Snapshot{PlayerID: id, Fields: obj}, nil
}

// ProfileCreate validates a full profile body.
func (v *Validator) ProfileCreate(body []byte) (map[string]any, error) {
	return parse(v.profileCreate, body)
}

// ProfileUpdate validates a partial profile body with at least one field.
func (v *Validator) ProfileUpdate(body []byte) (map[string]any, error) {
	return parse(v.profileUpdate, body)
}

// integer accepts json.Number values with no fractional part ("5" or "5.0").
func integer(v any) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
