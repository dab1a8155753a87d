package chart

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

func newComparisonBuilder(t *testing.T) *Builder {
	t.Helper()

	b, err := New(DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, b.SetCategories("2", "4", "8", "16"))
	require.NoError(t, b.AddSeries("Summary", []float64{9.18, 4.1, 2.2, 6.7}, SummaryColor))
	require.NoError(t, b.AddSeries("Light", []float64{7.14, 3.0, 1.1, 2.5}, LightColor))
	require.NoError(t, b.AddReferenceLine(5))
	require.NoError(t, b.SetLabels("Regions=100", "Threads", "% over NMT Off"))
	return b
}

func TestBuilder_Save(t *testing.T) {
	t.Run("WritesDecodablePNG", func(t *testing.T) {
		b := newComparisonBuilder(t)
		defer b.Close()

		path := filepath.Join(t.TempDir(), "100_plot.png")
		require.NoError(t, b.Save(path))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		img, err := png.Decode(f)
		require.NoError(t, err)
		assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy())

		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err), "temporary file must be renamed away")
	})

	t.Run("OverwritesExistingFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "200_plot.png")
		require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

		b := newComparisonBuilder(t)
		defer b.Close()
		require.NoError(t, b.Save(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	})

	t.Run("RejectsPathWithoutExtension", func(t *testing.T) {
		b := newComparisonBuilder(t)
		defer b.Close()

		err := b.Save(filepath.Join(t.TempDir(), "plot"))
		assert.Error(t, err)
	})

	t.Run("ReturnsErrorForUnwritableDirectory", func(t *testing.T) {
		b := newComparisonBuilder(t)
		defer b.Close()

		err := b.Save(filepath.Join(t.TempDir(), "missing", "100_plot.png"))
		assert.Error(t, err)
	})
}

func TestBuilder_WriteTo(t *testing.T) {
	b := newComparisonBuilder(t)
	defer b.Close()

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf, "svg")
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "Summary")
	assert.Contains(t, buf.String(), "Light")
}

func TestBuilder_Close(t *testing.T) {
	b := newComparisonBuilder(t)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.SetCategories("2"), ErrClosed)
	assert.ErrorIs(t, b.AddSeries("Summary", []float64{1}, SummaryColor), ErrClosed)
	assert.ErrorIs(t, b.AddReferenceLine(5), ErrClosed)
	assert.ErrorIs(t, b.SetLabels("t", "x", "y"), ErrClosed)
	assert.ErrorIs(t, b.Save(filepath.Join(t.TempDir(), "x.png")), ErrClosed)

	_, err := b.WriteTo(&bytes.Buffer{}, "png")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBuilder_AddSeries(t *testing.T) {
	t.Run("CentresGroupsOnCategories", func(t *testing.T) {
		b, err := New(DefaultOptions())
		require.NoError(t, err)
		defer b.Close()

		require.NoError(t, b.AddSeries("Summary", []float64{1, 2}, SummaryColor))
		assert.Equal(t, float64(0), float64(b.bars[0].Offset))

		require.NoError(t, b.AddSeries("Light", []float64{3, 4}, LightColor))
		assert.Equal(t, -b.bars[1].Offset, b.bars[0].Offset)
		assert.Less(t, float64(b.bars[0].Offset), float64(b.bars[1].Offset))
	})

	t.Run("RejectsLengthMismatch", func(t *testing.T) {
		b, err := New(DefaultOptions())
		require.NoError(t, err)
		defer b.Close()

		require.NoError(t, b.SetCategories("2", "4", "8", "16"))
		err = b.AddSeries("Summary", []float64{1, 2}, SummaryColor)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has 2 values, want 4")
	})

	t.Run("RejectsNaN", func(t *testing.T) {
		b, err := New(DefaultOptions())
		require.NoError(t, err)
		defer b.Close()

		err = b.AddSeries("Summary", []float64{1, math.NaN()}, SummaryColor)
		assert.Error(t, err)
	})
}

func TestReferenceTicker(t *testing.T) {
	base := plot.ConstantTicks([]plot.Tick{
		{Value: 0, Label: "0"},
		{Value: 2.5},
		{Value: 4, Label: "4"},
		{Value: 8, Label: "8"},
	})

	t.Run("AddsMissingValueInOrder", func(t *testing.T) {
		ticks := referenceTicker{base: base, values: []float64{5}}.Ticks(0, 10)
		require.Len(t, ticks, 5)
		assert.Equal(t, 5.0, ticks[3].Value)
		assert.Equal(t, "5", ticks[3].Label)
		for i := 1; i < len(ticks); i++ {
			assert.LessOrEqual(t, ticks[i-1].Value, ticks[i].Value)
		}
	})

	t.Run("LabelsExistingMinorTick", func(t *testing.T) {
		ticks := referenceTicker{base: base, values: []float64{2.5}}.Ticks(0, 10)
		require.Len(t, ticks, 4)
		assert.Equal(t, "2.5", ticks[1].Label)
	})

	t.Run("KeepsExistingMajorTick", func(t *testing.T) {
		ticks := referenceTicker{base: base, values: []float64{4}}.Ticks(0, 10)
		require.Len(t, ticks, 4)
		assert.Equal(t, "4", ticks[2].Label)
	})
}

func TestOptions_Validate(t *testing.T) {
	t.Run("AppliesDefaults", func(t *testing.T) {
		opts := Options{}
		require.NoError(t, opts.Validate())
		assert.Equal(t, DefaultOptions(), opts)
	})

	t.Run("KeepsExplicitSizes", func(t *testing.T) {
		opts := Options{Width: 8 * vg.Inch}
		require.NoError(t, opts.Validate())
		assert.Equal(t, 8*vg.Inch, opts.Width)
		assert.Equal(t, DefaultOptions().Height, opts.Height)
	})

	t.Run("RejectsNegativeSizes", func(t *testing.T) {
		opts := DefaultOptions()
		opts.BarWidth = -1
		assert.Error(t, opts.Validate())
	})
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	b, err := New(Options{Height: -vg.Inch})
	require.Error(t, err)
	assert.Nil(t, b)
	assert.Contains(t, err.Error(), "invalid chart options")
}
