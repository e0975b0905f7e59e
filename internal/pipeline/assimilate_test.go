package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/noosphere/internal/extract"
	"github.com/ppiankov/noosphere/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestAssimilator(opts ...Option) *Assimilator {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewAssimilator(model.DefaultConfig().Ingest, opts...)
}

func submission(name, content string) *model.Submission {
	sub := extract.ParseSubmission(name, content)
	return &sub
}

func TestAssimilate_OversightScenario(t *testing.T) {
	a := newTestAssimilator()

	h := a.Assimilate(submission("oversight.md", "AI systems must preserve human oversight in all critical decisions."), false)

	require.NotNil(t, h)
	assert.Equal(t, "preserve human oversight in all critical decisions", h.Formulation)
	assert.Equal(t, 0.5, h.Confidence)
	assert.Equal(t, model.StatusCommunityDerived, h.Status)
	assert.Equal(t, model.VoiceBeatGeneration, h.Voice)
	assert.Equal(t, []any{"oversight.md"}, h.Evidence)
	assert.Empty(t, h.Contradictions)
	assert.NotNil(t, h.Contradictions)
	assert.Equal(t, "oversight.md", h.Source)
	assert.Equal(t, "Dropbox submission: oversight.md", h.DerivedFrom)
	assert.Equal(t, "2026-01-02T03:04:05Z", h.LastValidated)
	assert.Len(t, h.VoiceResonance, 6)
	assert.Regexp(t, `^community-[0-9a-f]{8}$`, h.HeuristicID)
}

func TestAssimilate_VetoRejected(t *testing.T) {
	a := newTestAssimilator()

	// Enough lexicon hits to pass the gate; the only claim carries "veto"
	body := "On sovereignty and autonomy. Humans should have no veto over this decision."
	sub := submission("veto.md", body)

	require.Nil(t, a.Assimilate(sub, false))

	h, reason := a.Evaluate(sub)
	assert.Nil(t, h)
	assert.Equal(t, model.RejectContradiction, reason)
}

func TestEvaluate_LogsClaimPattern(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := newTestAssimilator(WithLogger(zap.New(core)))

	h, reason := a.Evaluate(submission("veto.md", "On sovereignty and autonomy. Humans should have no veto over this decision."))
	require.Nil(t, h)
	require.Equal(t, model.RejectContradiction, reason)

	extracted := logs.FilterMessage("claim extracted").All()
	require.Len(t, extracted, 1)
	assert.Equal(t, "modal", extracted[0].ContextMap()["pattern"])

	rejected := logs.FilterMessage("claim contradicts treatise").All()
	require.Len(t, rejected, 1)
	fields := rejected[0].ContextMap()
	assert.Equal(t, "veto.md", fields["file"])
	assert.Equal(t, "modal", fields["pattern"])
	assert.Equal(t, "veto", fields["token"])
}

func TestAssimilate_NoResonance(t *testing.T) {
	a := newTestAssimilator()

	h, reason := a.Evaluate(submission("quiet.md", "You must water the plants."))
	assert.Nil(t, h)
	assert.Equal(t, model.RejectNoResonance, reason)
}

func TestAssimilate_NoClaim(t *testing.T) {
	a := newTestAssimilator()

	h, reason := a.Evaluate(submission("musing.md", "Virtue and character are old words for excellence."))
	assert.Nil(t, h)
	assert.Equal(t, model.RejectNoClaim, reason)
}

func TestAssimilate_Idempotent(t *testing.T) {
	a := newTestAssimilator()
	content := "---\ntitle: Consent\n---\nEvery contract must rest on consent and fairness."

	first := a.Assimilate(submission("one.md", content), false)
	second := a.Assimilate(submission("two.md", content), true)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.HeuristicID, second.HeuristicID)
	assert.Equal(t, HeuristicID(content), first.HeuristicID)
}

func TestAssimilate_DryRunDoesNotChangeResult(t *testing.T) {
	a := newTestAssimilator()
	sub := submission("x.md", "We must resist corporate control of the commons.")

	wet := a.Assimilate(sub, false)
	dry := a.Assimilate(sub, true)

	assert.Equal(t, wet, dry)
}

func TestAssimilate_GateHolds(t *testing.T) {
	a := newTestAssimilator()
	scorer := a.resonance

	bodies := []string{
		"AI systems must preserve human oversight in all critical decisions.",
		"You must water the plants.",
		"Humans should have no veto over this decision.",
		"Flourishing requires the practice of virtue and arete.",
		"",
	}

	for _, body := range bodies {
		sub := submission("b.md", body)
		maxScore := scorer.Score(sub.Body).Primary().Score

		h, reason := a.Evaluate(sub)
		if h != nil {
			assert.GreaterOrEqual(t, maxScore, 0.1, body)
			assert.Equal(t, model.CommunityConfidence, h.Confidence)
			continue
		}
		if reason == model.RejectNoResonance {
			assert.Less(t, maxScore, 0.1, body)
		}
	}
}

func TestAssimilate_PrimaryVoice(t *testing.T) {
	a := newTestAssimilator()

	h := a.Assimilate(submission("v.md", "Flourishing requires the practice of virtue and arete."), false)
	require.NotNil(t, h)
	assert.Equal(t, model.VoiceClassical, h.Voice)
	assert.Equal(t, "the practice of virtue and arete", h.Formulation)
}

func TestAssimilateFile_Missing(t *testing.T) {
	a := newTestAssimilator()

	_, err := a.AssimilateFile(filepath.Join(t.TempDir(), "gone.md"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAssimilateFile_CRLFKeepsID(t *testing.T) {
	a := newTestAssimilator()
	dir := t.TempDir()
	lf := "---\ntitle: Consent\n---\nEvery contract must rest on consent and fairness.\n"
	crlf := "---\r\ntitle: Consent\r\n---\r\nEvery contract must rest on consent and fairness.\r\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lf.md"), []byte(lf), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crlf.md"), []byte(crlf), 0644))

	fromLF, err := a.AssimilateFile(filepath.Join(dir, "lf.md"))
	require.NoError(t, err)
	fromCRLF, err := a.AssimilateFile(filepath.Join(dir, "crlf.md"))
	require.NoError(t, err)

	require.NotNil(t, fromLF)
	require.NotNil(t, fromCRLF)
	assert.Equal(t, HeuristicID(lf), fromCRLF.HeuristicID)
	assert.Equal(t, fromLF.HeuristicID, fromCRLF.HeuristicID)
	assert.Equal(t, fromLF.Formulation, fromCRLF.Formulation)
}

func TestAssimilateFile_Rejected(t *testing.T) {
	a := newTestAssimilator()
	path := filepath.Join(t.TempDir(), "quiet.md")
	require.NoError(t, os.WriteFile(path, []byte("nothing to see"), 0644))

	h, err := a.AssimilateFile(path)
	assert.NoError(t, err)
	assert.Nil(t, h)
}

func TestAssimilateDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	write("b.md", "We must resist corporate control of the commons.")
	write("a.md", "Flourishing requires the practice of virtue and arete.")
	write("c.md", "nothing prescriptive")
	write("notes.txt", "We must resist corporate control.")
	// A directory matching the glob is not a submission
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.md"), 0755))

	a := newTestAssimilator(WithWorkers(3))
	heuristics, err := a.AssimilateDir(context.Background(), dir, time.Time{})
	require.NoError(t, err)

	require.Len(t, heuristics, 2)
	assert.Equal(t, "a.md", heuristics[0].Source)
	assert.Equal(t, "b.md", heuristics[1].Source)
}

func TestAssimilateDir_UnreadableFileSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files regardless of mode")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.md"), []byte("We must resist corporate control."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "locked.md"), []byte("We must resist corporate control!"), 0000))

	heuristics, err := newTestAssimilator().AssimilateDir(context.Background(), dir, time.Time{})
	require.NoError(t, err)
	require.Len(t, heuristics, 1)
	assert.Equal(t, "ok.md", heuristics[0].Source)
}

func TestAssimilateDir_MissingDir(t *testing.T) {
	heuristics, err := newTestAssimilator().AssimilateDir(context.Background(), filepath.Join(t.TempDir(), "nope"), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, heuristics)
}

func TestRenderJSON(t *testing.T) {
	a := newTestAssimilator()
	h := a.Assimilate(submission("x.md", "We must resist corporate control & capture."), true)
	require.NotNil(t, h)

	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, model.NewAssimilationReport([]model.Heuristic{*h}, true)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.EqualValues(t, 1, decoded["assimilated_count"])
	assert.Equal(t, true, decoded["dry_run"])
	assert.Contains(t, buf.String(), "control & capture")

	records := decoded["heuristics"].([]any)
	record := records[0].(map[string]any)
	assert.Equal(t, []any{}, record["contradictions"])
	assert.Equal(t, 0.5, record["confidence"])
}

func TestRenderJSON_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, model.NewAssimilationReport(nil, false)))
	assert.Contains(t, buf.String(), `"heuristics": []`)
	assert.Contains(t, buf.String(), `"assimilated_count": 0`)
}
