// internal/extraction/keywordmapper/rules.go
package keywordmapper

// rule maps the presence of any keyword to one enum value. Rules are tested
// in declaration order; order matters for single-choice questions.
type rule struct {
	keywords []string
	value    string
	negative bool
}

type questionRules struct {
	multi bool
	rules []rule
}

// ruleSets are hand-authored per question. Keywords are matched on
// lower-cased text, so they are written lower-case here.
var ruleSets = map[string]questionRules{
	"situation_maritale_client": {
		rules: []rule{
			// "pacsé" before "marié": un pacsé qui dit "comme marié" reste pacsé.
			{keywords: []string{"pacsé", "pacsée", "pacse", "pacs"}, value: "Pacsé(e)"},
			{keywords: []string{"divorcé", "divorcée", "divorce", "séparé", "séparée"}, value: "Divorcé(e)"},
			{keywords: []string{"veuf", "veuve"}, value: "Veuf(ve)"},
			{keywords: []string{"marié", "mariée", "marie", "mariés"}, value: "Marié(e)"},
			{keywords: []string{"concubin", "concubine", "concubinage", "union libre", "en couple"}, value: "Concubinage"},
			{keywords: []string{"célibataire", "celibataire", "seul", "seule"}, value: "Célibataire"},
		},
	},
	"activite_principale": {
		rules: []rule{
			{keywords: []string{"auto-entrepreneur", "auto entrepreneur", "micro-entreprise", "freelance", "indépendant", "independant", "à mon compte", "a mon compte", "profession libérale"}, value: "independant"},
			{keywords: []string{"chef d'entreprise", "dirigeant", "dirigeante", "gérant", "gérante", "président", "présidente"}, value: "chef_entreprise"},
			{keywords: []string{"retraité", "retraitée", "retraite", "pensionné"}, value: "retraite"},
			{keywords: []string{"étudiant", "étudiante", "etudiant"}, value: "etudiant"},
			{keywords: []string{"chômage", "chomage", "sans emploi", "recherche d'emploi", "sans activité"}, value: "sans_activite"},
			{keywords: []string{"salarié", "salariée", "salarie", "cdi", "cdd", "employé", "employée", "fonctionnaire"}, value: "salarie"},
		},
	},
	"revenus_complementaires": {
		multi: true,
		rules: []rule{
			{keywords: []string{"locatif", "loyer", "loyers", "foncier", "fonciers", "location"}, value: "revenus_fonciers"},
			{keywords: []string{"dividende", "dividendes"}, value: "dividendes"},
			{keywords: []string{"plus-value", "plus-values", "plus value", "cession"}, value: "plus_values"},
			{keywords: []string{"pension", "pensions", "rente", "rentes"}, value: "pensions"},
			{keywords: []string{"aucun", "aucune", "pas de revenus", "rien d'autre", "non rien"}, value: "aucun", negative: true},
		},
	},
	"statuts_juridiques": {
		multi: true,
		rules: []rule{
			{keywords: []string{"sci"}, value: "sci"},
			{keywords: []string{"sarl"}, value: "sarl"},
			{keywords: []string{"sasu", "sas"}, value: "sas"},
			{keywords: []string{"eurl"}, value: "eurl"},
			{keywords: []string{"micro-entreprise", "micro entreprise", "auto-entrepreneur", "auto entrepreneur"}, value: "micro"},
			{keywords: []string{"aucune", "aucun", "pas de société", "pas de societe", "pas de structure"}, value: "aucune", negative: true},
		},
	},
	"residence_fiscale": {
		rules: []rule{
			{keywords: []string{"étranger", "etranger", "expatrié", "expatriée", "hors de france"}, value: "etranger"},
			{keywords: []string{"france", "français", "française", "francais"}, value: "france"},
		},
	},
	"patrimoine_situation": {
		multi: true,
		rules: []rule{
			{keywords: []string{"propriétaire", "proprietaire", "ma maison", "mon appartement", "résidence principale"}, value: "proprietaire"},
			{keywords: []string{"locatif", "investissement immobilier", "appartement en location", "bien loué"}, value: "locatif"},
			{keywords: []string{"assurance vie", "assurance-vie"}, value: "assurance_vie"},
			{keywords: []string{"bourse", "actions", "pea", "compte-titres", "compte titres"}, value: "bourse"},
			{keywords: []string{"crypto", "bitcoin", "ethereum"}, value: "crypto"},
			{keywords: []string{"aucun", "rien", "pas de patrimoine"}, value: "aucun", negative: true},
		},
	},
	"objectifs_fiscaux": {
		multi: true,
		rules: []rule{
			{keywords: []string{"payer moins", "réduire", "reduire", "défiscaliser", "defiscaliser", "baisser mes impôts"}, value: "reduire_impots"},
			{keywords: []string{"retraite"}, value: "preparer_retraite"},
			{keywords: []string{"transmission", "transmettre", "succession", "donation", "héritage"}, value: "transmettre"},
			{keywords: []string{"investir", "placement", "placements", "faire fructifier"}, value: "investir"},
			{keywords: []string{"aucun", "je ne sais pas trop", "pas d'objectif"}, value: "aucun", negative: true},
		},
	},
}

// frenchNumbers covers the spoken forms heard on the children-count question.
var frenchNumbers = map[string]int{
	"zéro": 0, "zero": 0,
	"un": 1, "une": 1,
	"deux": 2, "trois": 3, "quatre": 4, "cinq": 5,
	"six": 6, "sept": 7, "huit": 8, "neuf": 9, "dix": 10,
}
