package models

// DraftPayload is the partially filled registration form as submitted by
// the application layer. It is stored verbatim and round-trips through
// SaveDraft/LoadDraft unchanged.
type DraftPayload map[string]any

// ReferenceName returns the denormalized display name ("nome" key) used by
// draft listings. Missing or non-string values yield the empty string.
func (p DraftPayload) ReferenceName() string {
	return p.stringField("nome")
}

// CPF returns the denormalized national-id number ("cpf" key).
func (p DraftPayload) CPF() string {
	return p.stringField("cpf")
}

func (p DraftPayload) stringField(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Draft is a saved in-progress registration. UpdatedAt is refreshed on
// every save and is the listing sort key.
type Draft struct {
	ID        int64        `json:"id"`
	Payload   DraftPayload `json:"dados"`
	CreatedAt string       `json:"criado_em"`
	UpdatedAt string       `json:"atualizado_em"`
}

// DraftSummary is the payload-free listing row.
type DraftSummary struct {
	ID            int64  `json:"id"`
	ReferenceName string `json:"nome_referencia"`
	CPF           string `json:"cpf"`
	CreatedAt     string `json:"criado_em"`
	UpdatedAt     string `json:"atualizado_em"`
}
