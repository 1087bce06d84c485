package license

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseflow/internal/llm"
)

// scriptedClient replies with a fixed body and counts calls.
type scriptedClient struct {
	reply string
	err   error
	calls int
	task  string
}

func (s *scriptedClient) Name() string { return "scripted" }
func (s *scriptedClient) Close() error { return nil }
func (s *scriptedClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.calls++
	s.task = llm.TaskFrom(ctx)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestClassifyParsesProviderVerdict(t *testing.T) {
	cli := &scriptedClient{reply: `{"license_type":"COPYLEFT","license_name":"GNU GPL v3","copyright_holder":"FSF"}`}
	c := NewClassifier(cli)

	info, err := c.Classify(context.Background(), gplHeader)
	require.NoError(t, err)
	assert.Equal(t, Copyleft, info.Kind)
	assert.Equal(t, "GNU GPL v3", info.Name)
	assert.Equal(t, "FSF", info.Holder)
	assert.Equal(t, "classify", cli.task)
}

func TestClassifyToleratesFencedJSON(t *testing.T) {
	cli := &scriptedClient{reply: "```json\n{\"license_type\":\"PERMISSIVE\",\"license_name\":\"MIT License\"}\n```"}
	c := NewClassifier(cli)

	info, err := c.Classify(context.Background(), mitHeader)
	require.NoError(t, err)
	assert.Equal(t, Permissive, info.Kind)
	// Holder missing from the verdict falls back to the header regexp.
	assert.Equal(t, "John Doe", info.Holder)
}

func TestClassifyUnparseableVerdictDegradesToUnknown(t *testing.T) {
	cli := &scriptedClient{reply: "I think this is probably MIT."}
	c := NewClassifier(cli)

	info, err := c.Classify(context.Background(), mitHeader)
	require.NoError(t, err)
	assert.Equal(t, Unknown, info.Kind)
}

func TestClassifyProviderFailureSurfacesError(t *testing.T) {
	cli := &scriptedClient{err: errors.New("rate limited")}
	c := NewClassifier(cli)

	info, err := c.Classify(context.Background(), mitHeader)
	require.Error(t, err)
	assert.Equal(t, Unknown, info.Kind)
}

func TestClassifyCachesIdenticalHeaders(t *testing.T) {
	cli := &scriptedClient{reply: `{"license_type":"PERMISSIVE","license_name":"MIT License"}`}
	c := NewClassifier(cli)

	for i := 0; i < 3; i++ {
		_, err := c.Classify(context.Background(), mitHeader)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, cli.calls, "identical headers should hit the cache")
}

func TestClassifyWithoutClientUsesHeuristic(t *testing.T) {
	c := NewClassifier(nil)

	info, err := c.Classify(context.Background(), mitHeader)
	require.NoError(t, err)
	assert.Equal(t, Permissive, info.Kind)
}
