package inmemory_test

import (
	"testing"

	"github.com/aretw0/twoway/internal/testutils"
	"github.com/aretw0/twoway/pkg/adapters/inmemory"
	"github.com/aretw0/twoway/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
)

func TestLoader_Contract(t *testing.T) {
	def := testutils.ScenarioDefinition()
	tests.DefinitionLoaderContractTest(t, inmemory.New(def), def)
}

func TestLoader_Named(t *testing.T) {
	l := inmemory.New(testutils.EvenZerosDefinition()).Named("even-zeros")
	assert.Equal(t, "even-zeros", l.Name())
}
