package pages

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyderes/page-content-ingestion/internal/models"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pages.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "Nombre,Partido,Pagina_publica\n"+
		"Ana Gómez,PartidoX,https://www.facebook.com/AnaGomezOficial\n"+
		"Luis Ruiz,PartidoY,\n")

	entries, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []models.PageEntry{
		{Name: "Ana Gómez", Party: "PartidoX", PublicPageURL: "https://www.facebook.com/AnaGomezOficial"},
		{Name: "Luis Ruiz", Party: "PartidoY", PublicPageURL: ""},
	}, entries)
}

func TestLoad_FileNotFound(t *testing.T) {
	entries, err := Load(filepath.Join(t.TempDir(), "missing.csv"))

	assert.Nil(t, entries)
	assert.True(t, errors.Is(err, ErrInputNotFound))
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestRead_SupersetAndReorderedColumns(t *testing.T) {
	input := "Distrito,Pagina_publica,Nombre,Partido\n" +
		"10,https://www.facebook.com/ExampleParty/,Example,PartidoZ\n"

	entries, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "Example", entries[0].Name)
	assert.Equal(t, "PartidoZ", entries[0].Party)
	assert.Equal(t, "https://www.facebook.com/ExampleParty/", entries[0].PublicPageURL)
}

func TestRead_ByteOrderMark(t *testing.T) {
	input := "\ufeffNombre,Partido,Pagina_publica\nAna,X,https://www.facebook.com/Ana\n"

	entries, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRead_ShortRows(t *testing.T) {
	input := "Nombre,Partido,Pagina_publica\nAna,X\n"

	entries, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].PublicPageURL)
}

func TestRead_MissingColumn(t *testing.T) {
	input := "Nombre,Partido\nAna,X\n"

	entries, err := Read(strings.NewReader(input))
	assert.Nil(t, entries)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Equal(t, []string{"Nombre", "Pagina_publica", "Partido"}, schemaErr.Expected)
	assert.Equal(t, []string{"Nombre", "Partido"}, schemaErr.Found)
	assert.Contains(t, err.Error(), "Pagina_publica")
}

func TestRead_EmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

func TestRead_HeaderOnly(t *testing.T) {
	entries, err := Read(strings.NewReader("Nombre,Partido,Pagina_publica\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(""))
	assert.True(t, IsMissing("   "))
	assert.True(t, IsMissing("nan"))
	assert.True(t, IsMissing(" NaN "))
	assert.True(t, IsMissing("NAN"))
	for _, token := range []string{"N/A", "n/a", "NA", "NULL", "null", "None", "<NA>", "#N/A", "#N/A N/A", "#NA", "-NaN", "-nan", "1.#IND", "-1.#QNAN"} {
		assert.True(t, IsMissing(token), token)
		assert.True(t, IsMissing(" "+token+" "), token)
	}

	assert.False(t, IsMissing("https://www.facebook.com/AnaGomezOficial"))
	assert.False(t, IsMissing("nano"))
	assert.False(t, IsMissing("none"))
	assert.False(t, IsMissing("Null"))
	assert.False(t, IsMissing("na"))
}
