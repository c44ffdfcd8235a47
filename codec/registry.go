package codec

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Registry holds the schemas of one record family (accounts or
// instructions) keyed by discriminator. Registries are populated at process
// start and read-only afterwards.
type Registry struct {
	name    string
	schemas map[uint8]*Schema
}

func NewRegistry(name string) *Registry {
	return &Registry{
		name:    name,
		schemas: make(map[uint8]*Schema),
	}
}

// Register adds a schema under its leading fixed-u8 discriminator. Schemas
// without one, and duplicate discriminators, are rejected.
func (r *Registry) Register(schema *Schema) error {
	disc, ok := schema.Discriminator()
	if !ok {
		return fmt.Errorf("registry %s: schema %s has no leading discriminator", r.name, schema.Name())
	}
	if existing, ok := r.schemas[disc]; ok {
		return fmt.Errorf("registry %s: discriminator %d already taken by %s", r.name, disc, existing.Name())
	}
	r.schemas[disc] = schema
	return nil
}

func (r *Registry) MustRegister(schemas ...*Schema) *Registry {
	for _, schema := range schemas {
		if err := r.Register(schema); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Schema(disc uint8) (*Schema, bool) {
	schema, ok := r.schemas[disc]
	return schema, ok
}

// Resolve identifies the schema for a buffer from its first byte, without
// decoding the rest.
func (r *Registry) Resolve(data []byte) (*Schema, error) {
	if len(data) < 1 {
		return nil, &TruncatedInputError{Schema: r.name, Field: "discriminator", Need: 1, Have: 0}
	}
	schema, ok := r.schemas[data[0]]
	if !ok {
		return nil, &UnknownDiscriminatorError{Registry: r.name, Discriminator: data[0]}
	}
	return schema, nil
}

// Decode resolves the buffer's schema and fully decodes it.
func (r *Registry) Decode(data []byte) (*Schema, map[string]interface{}, error) {
	schema, err := r.Resolve(data)
	if err != nil {
		return nil, nil, err
	}
	values, err := schema.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return schema, values, nil
}

// Program describes one on-chain program: its account layouts and its
// instruction payloads, each keyed by discriminator.
type Program struct {
	Name         string
	Address      solana.PublicKey
	Accounts     *Registry
	Instructions *Registry
}

func NewProgram(name string, address solana.PublicKey) *Program {
	return &Program{
		Name:         name,
		Address:      address,
		Accounts:     NewRegistry(name + " accounts"),
		Instructions: NewRegistry(name + " instructions"),
	}
}
