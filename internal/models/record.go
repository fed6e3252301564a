// Package models holds the persisted entity types of the teacher registry.
// Stored field names keep the original Portuguese schema; the firestore
// tags double as the document field names.
package models

// Record is a finalized teacher registration. ID and CreatedAt are
// assigned by the storage backend on insert and never mutated afterwards.
type Record struct {
	ID                  int64  `firestore:"id" json:"id"`
	Name                string `firestore:"nome" json:"nome"`
	CPF                 string `firestore:"cpf" json:"cpf"`
	RG                  string `firestore:"rg" json:"rg"`
	Registration        string `firestore:"matricula" json:"matricula"`
	School              string `firestore:"escola" json:"escola"`
	Role                string `firestore:"cargo" json:"cargo"`
	EmploymentStatus    string `firestore:"situacao_servidor" json:"situacao_servidor"`
	AdmissionDate       string `firestore:"data_admissao" json:"data_admissao"`
	Phone               string `firestore:"telefone" json:"telefone"`
	Email               string `firestore:"email" json:"email"`
	Address             string `firestore:"endereco" json:"endereco"`
	Bank                string `firestore:"banco" json:"banco"`
	Branch              string `firestore:"agencia" json:"agencia"`
	Account             string `firestore:"conta" json:"conta"`
	AccountType         string `firestore:"tipo_conta" json:"tipo_conta"`
	FundefStart         string `firestore:"data_inicio_fundef" json:"data_inicio_fundef"`
	FundefEnd           string `firestore:"data_fim_fundef" json:"data_fim_fundef"`
	WeeklyHours         int64  `firestore:"carga_horaria" json:"carga_horaria"`
	MonthsWorked        int64  `firestore:"quantidade_meses_trabalhados" json:"quantidade_meses_trabalhados"`
	AcceptedDeclaration bool   `firestore:"aceitou_declaracao" json:"aceitou_declaracao"`
	CreatedAt           string `firestore:"criado_em" json:"criado_em"`
}

// RecordSummary is the projection consumed by the allocation process. It
// carries only the columns that computation reads, ordered by name.
type RecordSummary struct {
	ID               int64  `firestore:"id" json:"id"`
	Name             string `firestore:"nome" json:"nome"`
	CPF              string `firestore:"cpf" json:"cpf"`
	School           string `firestore:"escola" json:"escola"`
	Role             string `firestore:"cargo" json:"cargo"`
	EmploymentStatus string `firestore:"situacao_servidor" json:"situacao_servidor"`
	MonthsWorked     int64  `firestore:"quantidade_meses_trabalhados" json:"quantidade_meses_trabalhados"`
}
