package domain

// Category - категория услуг маркетплейса
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var serviceCategories = []Category{
	{ID: "construcao-remodelacao", Name: "Construção e Remodelação"},
	{ID: "eletricidade", Name: "Eletricidade"},
	{ID: "canalizacao", Name: "Canalização"},
	{ID: "pintura", Name: "Pintura"},
	{ID: "limpeza", Name: "Limpeza"},
	{ID: "jardinagem", Name: "Jardinagem"},
	{ID: "climatizacao", Name: "Climatização"},
	{ID: "carpintaria", Name: "Carpintaria"},
	{ID: "mudancas", Name: "Mudanças"},
	{ID: "informatica", Name: "Informática"},
	{ID: "aulas-formacao", Name: "Aulas e Formação"},
	{ID: "eventos", Name: "Eventos"},
	{ID: "saude-bem-estar", Name: "Saúde e Bem-estar"},
	{ID: "auto-reparacao", Name: "Auto e Reparação"},
}

// ServiceCategories возвращает копию каталога категорий
func ServiceCategories() []Category {
	out := make([]Category, len(serviceCategories))
	copy(out, serviceCategories)
	return out
}
