package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/gatehouse/internal/config"
	"github.com/fyrsmithlabs/gatehouse/internal/job"
)

var twoSteps = Template{Steps: []job.Step{
	{Name: "install", Command: []string{"make", "install"}},
	{Name: "test", Command: []string{"make", "test"}},
}}

func TestExpand_SingleAxis(t *testing.T) {
	instances, err := Expand([]Axis{{Name: "python", Values: []string{"3.9", "3.10", "3.11"}}}, twoSteps)
	require.NoError(t, err)

	require.Len(t, instances, 3)
	assert.Equal(t, "3.9", instances[0].Label)
	assert.Equal(t, "3.10", instances[1].Label)
	assert.Equal(t, "3.11", instances[2].Label)
	for _, inst := range instances {
		assert.Equal(t, job.StatePending, inst.State)
		assert.Len(t, inst.Steps, 2)
	}
}

func TestExpand_CrossProduct(t *testing.T) {
	instances, err := Expand([]Axis{
		{Name: "python", Values: []string{"3.9", "3.10"}},
		{Name: "os", Values: []string{"linux", "darwin", "windows"}},
	}, twoSteps)
	require.NoError(t, err)

	require.Len(t, instances, 6, "N axes of sizes s1..sN produce s1*...*sN instances")

	labels := make([]string, len(instances))
	seen := make(map[string]bool)
	for i, inst := range instances {
		labels[i] = inst.Label
		assert.False(t, seen[inst.Label], "labels must be distinct")
		seen[inst.Label] = true
	}
	// First axis outermost, stable order.
	assert.Equal(t, []string{
		"3.9-linux", "3.9-darwin", "3.9-windows",
		"3.10-linux", "3.10-darwin", "3.10-windows",
	}, labels)

	assert.Equal(t, map[string]string{"python": "3.10", "os": "darwin"}, instances[4].Variants)
}

func TestExpand_Deterministic(t *testing.T) {
	axes := []Axis{
		{Name: "a", Values: []string{"1", "2"}},
		{Name: "b", Values: []string{"x", "y"}},
	}

	first, err := Expand(axes, twoSteps)
	require.NoError(t, err)
	second, err := Expand(axes, twoSteps)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Label, second[i].Label)
	}
}

func TestExpand_EmptyAxisRejected(t *testing.T) {
	_, err := Expand([]Axis{
		{Name: "python", Values: []string{"3.9"}},
		{Name: "os", Values: nil},
	}, twoSteps)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyAxis)
	assert.Contains(t, err.Error(), `"os"`)
}

func TestExpand_NoAxesProducesDefaultInstance(t *testing.T) {
	instances, err := Expand(nil, twoSteps)
	require.NoError(t, err)

	require.Len(t, instances, 1)
	assert.Equal(t, "default", instances[0].Label)
}

func TestExpand_InstancesAreIndependent(t *testing.T) {
	instances, err := Expand([]Axis{{Name: "v", Values: []string{"1", "2"}}}, twoSteps)
	require.NoError(t, err)

	instances[0].Steps[0].Name = "mutated"
	assert.Equal(t, "install", instances[1].Steps[0].Name, "step lists must not be shared between instances")
}

func TestAxesFromConfig(t *testing.T) {
	axes := AxesFromConfig([]config.AxisConfig{{Name: "python", Values: []string{"3.9"}}})
	require.Len(t, axes, 1)
	assert.Equal(t, "python", axes[0].Name)
}
