// internal/extraction/suggestion/engine.go
// Package suggestion computes the proactive guidance shown to the advisor:
// which profile slots are still empty, a completion percentage, a coarse
// stage label and advisory cross-field warnings.
package suggestion

import (
	"fmt"
	"math"

	"francis-backend/internal/models"
)

// Stage labels, selected by fixed completion-rate thresholds.
const (
	StageStart      = "Démarrage"
	StageBasics     = "Informations de base"
	StageDeepening  = "Approfondissement"
	StageFinalizing = "Finalisation"
	StageComplete   = "Profil complet"
)

const maxNextQuestions = 3

// checklistSlot is one entry of the fixed ordered checklist. A slot counts
// as filled when any of its fields is present (logical OR-group).
type checklistSlot struct {
	prompt string
	filled func(*models.ClientProfile) bool
}

// checklist spans identity, family, profession/income, real estate and
// savings/investment/debt. Order is fixed; nextQuestions follows it.
var checklist = []checklistSlot{
	{
		prompt: "Quel est le nom complet du client ?",
		filled: func(p *models.ClientProfile) bool {
			return strSet(p.Nom) || strSet(p.Prenom)
		},
	},
	{
		prompt: "Quelle est sa date de naissance ?",
		filled: func(p *models.ClientProfile) bool { return strSet(p.DateNaissance) },
	},
	{
		prompt: "Quelle est sa situation maritale ?",
		filled: func(p *models.ClientProfile) bool { return strSet(p.SituationMaritale) },
	},
	{
		prompt: "Combien d'enfants a-t-il à charge ?",
		filled: func(p *models.ClientProfile) bool { return p.NombreEnfantsACharge != nil },
	},
	{
		prompt: "Quelle est son activité professionnelle ?",
		filled: func(p *models.ClientProfile) bool {
			return strSet(p.ActivitePrincipale) || strSet(p.Profession)
		},
	},
	{
		prompt: "Quel est son revenu net annuel ?",
		filled: func(p *models.ClientProfile) bool { return p.RevenuNetAnnuel != nil },
	},
	{
		prompt: "Est-il propriétaire ou locataire de sa résidence principale ?",
		filled: func(p *models.ClientProfile) bool { return strSet(p.ResidencePrincipaleStatut) },
	},
	{
		prompt: "Détient-il de l'immobilier locatif ?",
		filled: func(p *models.ClientProfile) bool {
			return p.ImmobilierLocatif != nil || p.ValeurImmobilierLocatif != nil
		},
	},
	{
		prompt: "Quels sont ses comptes courants et livrets d'épargne ?",
		filled: func(p *models.ClientProfile) bool {
			return p.ComptesCourants != nil || p.LivretsEpargne != nil
		},
	},
	{
		prompt: "A-t-il des placements (assurance vie, PEA, compte-titres) ?",
		filled: func(p *models.ClientProfile) bool {
			return p.AssuranceVie != nil || p.PEA != nil || p.CompteTitres != nil
		},
	},
	{
		prompt: "A-t-il des crédits ou dettes en cours ?",
		filled: func(p *models.ClientProfile) bool {
			return p.DettesConsommation != nil || p.AutresDettes != nil ||
				p.CreditResidenceRestant != nil
		},
	},
	{
		prompt: "Quels sont ses objectifs fiscaux ?",
		filled: func(p *models.ClientProfile) bool { return len(p.ObjectifsFiscaux) > 0 },
	},
}

// Thresholds for the income/securities inconsistency rule.
const (
	lowIncomeThreshold      = 20000
	highSecuritiesThreshold = 100000
)

// Compute derives the SuggestionState from scratch. Call it after every
// profile mutation; it never updates partially.
func Compute(p *models.ClientProfile) models.SuggestionState {
	if p == nil {
		p = &models.ClientProfile{}
	}

	filled := 0
	next := make([]string, 0, maxNextQuestions)
	for _, slot := range checklist {
		if slot.filled(p) {
			filled++
			continue
		}
		if len(next) < maxNextQuestions {
			next = append(next, slot.prompt)
		}
	}

	rate := int(math.Round(float64(filled) / float64(len(checklist)) * 100))

	return models.SuggestionState{
		NextQuestions:   next,
		CompletionRate:  rate,
		Inconsistencies: detectInconsistencies(p),
		Stage:           classifyStage(rate),
	}
}

func classifyStage(rate int) string {
	switch {
	case rate < 25:
		return StageStart
	case rate < 50:
		return StageBasics
	case rate < 75:
		return StageDeepening
	case rate < 90:
		return StageFinalizing
	default:
		return StageComplete
	}
}

// detectInconsistencies applies the fixed cross-field sanity rules. The
// warnings are advisory only and never block submission.
func detectInconsistencies(p *models.ClientProfile) []string {
	warnings := []string{}

	if strSet(p.SituationMaritale) && *p.SituationMaritale == "Célibataire" &&
		p.NombreEnfantsACharge != nil && *p.NombreEnfantsACharge > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"Situation de parent isolé probable : célibataire avec %d enfant(s) à charge. Vérifier la case T.",
			*p.NombreEnfantsACharge))
	}

	if p.RevenuNetAnnuel != nil && *p.RevenuNetAnnuel < lowIncomeThreshold &&
		p.CompteTitres != nil && *p.CompteTitres > highSecuritiesThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"Revenu déclaré faible (%.0f €) pour un compte-titres de %.0f € : vérifier l'origine des avoirs.",
			*p.RevenuNetAnnuel, *p.CompteTitres))
	}

	if strSet(p.ActivitePrincipale) && *p.ActivitePrincipale == "retraite" &&
		strSet(p.Employeur) {
		warnings = append(warnings,
			"Client retraité avec un employeur déclaré : vérifier un éventuel cumul emploi-retraite.")
	}

	return warnings
}

func strSet(s *string) bool {
	return s != nil && *s != ""
}
