package testutil

import "github.com/atendeplus/roteiro/core"

// RecordBuilder builds core.AgentRecord fixtures fluently. Records start
// active with version 1; chain With* methods to adjust.
type RecordBuilder struct {
	rec core.AgentRecord
}

// NewRecordBuilder starts a builder for an active agent record.
func NewRecordBuilder(id int64, name string) *RecordBuilder {
	return &RecordBuilder{rec: core.AgentRecord{ID: id, Name: name, Version: 1, Active: true}}
}

// WithRole sets the free-text role label.
func (b *RecordBuilder) WithRole(role string) *RecordBuilder {
	b.rec.Role = role
	return b
}

// WithModel sets the model identifier.
func (b *RecordBuilder) WithModel(model string) *RecordBuilder {
	b.rec.Model = model
	return b
}

// WithPrompt sets the agent's system prompt.
func (b *RecordBuilder) WithPrompt(prompt string) *RecordBuilder {
	b.rec.SystemPrompt = prompt
	return b
}

// WithPersona sets the bot-level persona text.
func (b *RecordBuilder) WithPersona(persona string) *RecordBuilder {
	b.rec.Persona = persona
	return b
}

// WithCollection binds a retrieval collection.
func (b *RecordBuilder) WithCollection(id int64, identifier, provider string) *RecordBuilder {
	b.rec.Collection = &core.CollectionRef{ID: id, Identifier: identifier, Provider: provider}
	return b
}

// Inactive marks the record inactive.
func (b *RecordBuilder) Inactive() *RecordBuilder {
	b.rec.Active = false
	return b
}

// Build returns the record.
func (b *RecordBuilder) Build() core.AgentRecord {
	return b.rec
}
