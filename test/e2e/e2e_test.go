// test/e2e/e2e_test.go
// End-to-end onboarding scenario: dictated answers flow through the
// confidence filter, the extraction pipeline and the session state machine,
// and the suggestion engine reads the resulting profile.
package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"francis-backend/internal/common/config"
	"francis-backend/internal/common/database"
	"francis-backend/internal/common/logger"
	"francis-backend/internal/extraction"
	"francis-backend/internal/extraction/semanticfallback"
	"francis-backend/internal/extraction/suggestion"
	"francis-backend/internal/extraction/transcriptfilter"
	"francis-backend/internal/models"
	"francis-backend/internal/session"
	"francis-backend/pkg/questionnaire"
)

// genAIStub mimics the extraction endpoint of the GenAI compute service,
// answering from a canned text-to-fields table.
func genAIStub(t *testing.T, responses map[string]map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data, ok := responses[req.Text]
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": ok,
			"data":    data,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOnboardingConversation(t *testing.T) {
	log := logger.NewTestLogger(t)
	q := questionnaire.Default()

	// The fourth utterance has no keyword match and goes to the semantic
	// extractor, which also recognizes a field of a later question.
	indirect := "un petit complément qui me tombe tous les mois pour un studio à Rennes"
	genai := genAIStub(t, map[string]map[string]interface{}{
		indirect: {
			"revenus_complementaires": []string{"revenus_fonciers"},
			"residence_fiscale":       "france",
		},
	})
	fallback := semanticfallback.NewClient(&semanticfallback.Config{
		BaseURL: genai.URL,
		Timeout: 2 * time.Second,
	}, log)
	pipeline := extraction.NewPipeline(q, fallback, log)

	mr := miniredis.RunT(t)
	redisClient, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	sessions := session.NewStore(redisClient, time.Hour)

	ctx := context.Background()
	sess := session.New("user-e2e")
	require.NoError(t, sessions.Save(ctx, sess))

	filter := transcriptfilter.New()

	utterances := []struct {
		text       string
		confidence float64
	}{
		{"je suis marié", 0.85},
		{"on a deux enfants", 0.9},
		{"je suis salarié en CDI", 0.8},
		{indirect, 0.75},
	}

	for _, u := range utterances {
		// Low-confidence mumbling around each real utterance must be dropped.
		noise := filter.Offer(transcriptfilter.Hypothesis{Text: "euh hmm", Confidence: 0.1, IsFinal: true})
		assert.Equal(t, transcriptfilter.EventRejected, noise.Type)

		event := filter.Offer(transcriptfilter.Hypothesis{Text: u.text, Confidence: u.confidence, IsFinal: true})
		require.Equal(t, transcriptfilter.EventTranscript, event.Type)

		question, ok := sess.CurrentQuestion(q)
		require.True(t, ok)
		require.True(t, sess.BeginExtracting())

		outcome := pipeline.Process(ctx, sess.Answers, question.ID, event.Text, sess.Context)
		sess.PushContext(event.Text)
		sess.FinishExtracting(q, outcome.Advance)
		require.NoError(t, sessions.Save(ctx, sess))
		filter.ClearTranscript()
	}

	// Reload from Redis: state survives the round trip.
	loaded, err := sessions.Load(ctx, sess.ID)
	require.NoError(t, err)

	marital, ok := loaded.Answers.Get("situation_maritale_client")
	require.True(t, ok)
	assert.Equal(t, "Marié(e)", marital.Single)

	children, ok := loaded.Answers.Get("nombre_enfants_a_charge_client")
	require.True(t, ok)
	assert.Equal(t, "2", children.Single)

	activite, ok := loaded.Answers.Get("activite_principale")
	require.True(t, ok)
	assert.Equal(t, "salarie", activite.Single)

	complementaires, ok := loaded.Answers.Get("revenus_complementaires")
	require.True(t, ok)
	assert.Equal(t, []string{"revenus_fonciers"}, complementaires.Multi)

	// The semantic pass answered a later question ahead of time.
	residence, ok := loaded.Answers.Get("residence_fiscale")
	require.True(t, ok)
	assert.Equal(t, "france", residence.Single)

	assert.Equal(t, 4, loaded.QuestionIndex)
	assert.Equal(t, session.PhaseAsking, loaded.Phase)
	assert.Len(t, loaded.Context, 3, "conversational context keeps the last three utterances")

	// The suggestion engine reads the partially filled profile.
	situation := marital.Single
	enfants := 2
	profession := "Salarié(e)"
	profile := &models.ClientProfile{
		SituationMaritale:    &situation,
		NombreEnfantsACharge: &enfants,
		Profession:           &profession,
	}
	state := suggestion.Compute(profile)
	assert.Greater(t, state.CompletionRate, 0)
	assert.Less(t, state.CompletionRate, 100)
	assert.NotEmpty(t, state.NextQuestions)
	assert.LessOrEqual(t, len(state.NextQuestions), 3)
}

func TestOnboardingDegradesToFreeText(t *testing.T) {
	log := logger.NewTestLogger(t)
	q := questionnaire.Default()

	genai := genAIStub(t, nil) // recognizes nothing
	fallback := semanticfallback.NewClient(&semanticfallback.Config{
		BaseURL: genai.URL,
		Timeout: 2 * time.Second,
	}, log)
	pipeline := extraction.NewPipeline(q, fallback, log)

	sess := session.New("user-e2e")
	question, _ := sess.CurrentQuestion(q)
	require.True(t, sess.BeginExtracting())

	raw := "bon ben franchement aucune idée"
	outcome := pipeline.Process(context.Background(), sess.Answers, question.ID, raw, nil)
	sess.FinishExtracting(q, outcome.Advance)

	assert.Equal(t, extraction.SourceLibre, outcome.Source)
	libre, ok := sess.Answers.GetLibre(question.ID)
	require.True(t, ok)
	assert.Equal(t, raw, libre)

	// Nothing the user said is lost, and the conversation moved on.
	assert.Equal(t, 1, sess.QuestionIndex)
}
