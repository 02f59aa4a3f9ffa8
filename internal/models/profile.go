// internal/models/profile.go
package models

import "time"

// ClientProfile is the flat client record managed from the advisor dashboard.
// Every field is independently nullable; nothing is derived at this level.
// JSON keys stay in French to match the stored payloads.
type ClientProfile struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id,omitempty"`

	// Identité
	Civilite      *string `json:"civilite,omitempty"`
	Nom           *string `json:"nom,omitempty"`
	Prenom        *string `json:"prenom,omitempty"`
	DateNaissance *string `json:"date_naissance,omitempty"`
	LieuNaissance *string `json:"lieu_naissance,omitempty"`
	Nationalite   *string `json:"nationalite,omitempty"`

	// Contact
	Email      *string `json:"email,omitempty"`
	Telephone  *string `json:"telephone,omitempty"`
	Adresse    *string `json:"adresse,omitempty"`
	CodePostal *string `json:"code_postal,omitempty"`
	Ville      *string `json:"ville,omitempty"`
	Pays       *string `json:"pays,omitempty"`

	// Situation familiale
	SituationMaritale    *string `json:"situation_maritale_client,omitempty"`
	RegimeMatrimonial    *string `json:"regime_matrimonial,omitempty"`
	NombreEnfantsACharge *int    `json:"nombre_enfants_a_charge_client,omitempty"`
	EnfantsGardeAlternee *bool   `json:"enfants_en_garde_alternee,omitempty"`
	PersonnesDependantes *int    `json:"personnes_dependantes,omitempty"`

	// Situation professionnelle - client
	ActivitePrincipale     *string  `json:"activite_principale_client,omitempty"`
	Profession             *string  `json:"profession_client,omitempty"`
	Employeur              *string  `json:"employeur_client,omitempty"`
	StatutJuridique        *string  `json:"statut_juridique_client,omitempty"`
	RevenuNetAnnuel        *float64 `json:"revenu_net_annuel_client,omitempty"`
	RevenusComplementaires *string  `json:"revenus_complementaires_client,omitempty"`
	DateDebutActivite      *string  `json:"date_debut_activite_client,omitempty"`

	// Situation professionnelle - conjoint
	ActivitePrincipaleConjoint     *string  `json:"activite_principale_conjoint,omitempty"`
	ProfessionConjoint             *string  `json:"profession_conjoint,omitempty"`
	EmployeurConjoint              *string  `json:"employeur_conjoint,omitempty"`
	StatutJuridiqueConjoint        *string  `json:"statut_juridique_conjoint,omitempty"`
	RevenuNetAnnuelConjoint        *float64 `json:"revenu_net_annuel_conjoint,omitempty"`
	RevenusComplementairesConjoint *string  `json:"revenus_complementaires_conjoint,omitempty"`

	// Patrimoine immobilier
	ResidencePrincipaleStatut      *string  `json:"residence_principale_statut,omitempty"`
	ValeurResidencePrincipale      *float64 `json:"valeur_residence_principale,omitempty"`
	CreditResidenceRestant         *float64 `json:"credit_residence_principale_restant,omitempty"`
	MensualiteCreditResidence      *float64 `json:"mensualite_credit_residence,omitempty"`
	ResidencesSecondaires          *bool    `json:"residences_secondaires,omitempty"`
	ValeurResidencesSecondaires    *float64 `json:"valeur_residences_secondaires,omitempty"`
	ImmobilierLocatif              *bool    `json:"immobilier_locatif,omitempty"`
	ValeurImmobilierLocatif        *float64 `json:"valeur_immobilier_locatif,omitempty"`
	RevenusFonciersAnnuels         *float64 `json:"revenus_fonciers_annuels,omitempty"`

	// Patrimoine financier
	ComptesCourants   *float64 `json:"comptes_courants,omitempty"`
	LivretsEpargne    *float64 `json:"livrets_epargne,omitempty"`
	AssuranceVie      *float64 `json:"assurance_vie,omitempty"`
	PEA               *float64 `json:"pea,omitempty"`
	CompteTitres      *float64 `json:"compte_titres,omitempty"`
	EpargneRetraite   *float64 `json:"epargne_retraite,omitempty"`
	CryptoActifs      *float64 `json:"crypto_actifs,omitempty"`
	AutresPlacements  *float64 `json:"autres_placements,omitempty"`
	DettesConsommation *float64 `json:"dettes_consommation,omitempty"`
	AutresDettes      *float64 `json:"autres_dettes,omitempty"`

	// Historique fiscal
	ResidenceFiscale          *string  `json:"residence_fiscale,omitempty"`
	ImpotRevenuAnneePrecedente *float64 `json:"impot_revenu_annee_precedente,omitempty"`
	TrancheMarginaleImposition *float64 `json:"tranche_marginale_imposition,omitempty"`
	CreditsImpotEnCours        *string  `json:"credits_impot_en_cours,omitempty"`
	DonsRealises               *float64 `json:"dons_realises,omitempty"`
	IFIAssujetti               *bool    `json:"ifi_assujetti,omitempty"`

	// Objectifs
	ObjectifsFiscaux      []string `json:"objectifs_fiscaux,omitempty"`
	HorizonInvestissement *string  `json:"horizon_investissement,omitempty"`
	ToleranceRisque       *string  `json:"tolerance_risque,omitempty"`
	ProjetsAFinancer      *string  `json:"projets_a_financer,omitempty"`

	// Suivi conseiller
	StatutDossier         *string `json:"statut_dossier,omitempty"`
	ConseillerAssigne     *string `json:"conseiller_assigne,omitempty"`
	NotesConseiller       *string `json:"notes_conseiller,omitempty"`
	DateDernierRendezVous *string `json:"date_dernier_rendez_vous,omitempty"`
	ProchainRendezVous    *string `json:"prochain_rendez_vous,omitempty"`
	SourceAcquisition     *string `json:"source_acquisition,omitempty"`

	// Champs dérivés, calculés une seule fois à la finalisation du dossier.
	PatrimoineImmobilier *bool `json:"patrimoine_immobilier,omitempty"`
	PatrimoineFinancier  *bool `json:"patrimoine_financier,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Finalize computes the derived booleans. Called once when the profile is
// submitted, never maintained incrementally.
func (p *ClientProfile) Finalize() {
	immo := hasValue(p.ValeurResidencePrincipale) ||
		(p.ResidencesSecondaires != nil && *p.ResidencesSecondaires) ||
		(p.ImmobilierLocatif != nil && *p.ImmobilierLocatif) ||
		hasValue(p.ValeurImmobilierLocatif)
	fin := hasValue(p.ComptesCourants) || hasValue(p.LivretsEpargne) ||
		hasValue(p.AssuranceVie) || hasValue(p.PEA) ||
		hasValue(p.CompteTitres) || hasValue(p.EpargneRetraite) ||
		hasValue(p.CryptoActifs) || hasValue(p.AutresPlacements)
	p.PatrimoineImmobilier = &immo
	p.PatrimoineFinancier = &fin
}

// DisplayName returns "Prénom Nom" with whatever parts are present.
func (p *ClientProfile) DisplayName() string {
	name := ""
	if p.Prenom != nil {
		name = *p.Prenom
	}
	if p.Nom != nil {
		if name != "" {
			name += " "
		}
		name += *p.Nom
	}
	return name
}

func hasValue(f *float64) bool {
	return f != nil && *f > 0
}

// UserProfile is the account-level record behind /user-profile.
type UserProfile struct {
	ID                string    `json:"id"`
	Email             *string   `json:"email,omitempty"`
	Nom               *string   `json:"nom,omitempty"`
	Prenom            *string   `json:"prenom,omitempty"`
	Telephone         *string   `json:"telephone,omitempty"`
	SituationMaritale *string   `json:"situation_maritale,omitempty"`
	NombreEnfants     *int      `json:"nombre_enfants,omitempty"`
	Profession        *string   `json:"profession,omitempty"`
	RevenuAnnuel      *float64  `json:"revenu_annuel,omitempty"`
	ResidenceFiscale  *string   `json:"residence_fiscale,omitempty"`
	AbonnementActif   *bool     `json:"abonnement_actif,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}
