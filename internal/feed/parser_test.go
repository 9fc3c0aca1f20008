// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <link href="http://arxiv.org/api/query?search_query%3Dti%3Aattention" rel="self" type="application/atom+xml"/>
  <title type="html">ArXiv Query: search_query=ti:attention</title>
  <id>http://arxiv.org/api/cHxbiOdZaP56ODnBPIenZhzg5f8</id>
  <updated>2024-12-02T00:00:00-05:00</updated>
  <opensearch:totalResults>1234</opensearch:totalResults>
  <opensearch:startIndex>0</opensearch:startIndex>
  <opensearch:itemsPerPage>2</opensearch:itemsPerPage>
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <updated>2023-08-02T00:41:18Z</updated>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
      You Need</title>
    <summary>  The dominant sequence transduction models are based on complex
  recurrent or convolutional neural networks.
</summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <author><name>Niki Parmar</name></author>
    <arxiv:comment>15 pages, 5 figures</arxiv:comment>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1810.04805v2</id>
    <updated>2019-05-24T20:37:26Z</updated>
    <published>2018-10-11T00:50:01Z</published>
    <title>BERT: Pre-training of Deep Bidirectional Transformers for Language Understanding</title>
    <summary>We introduce a new language representation model called BERT.</summary>
    <author><name>Jacob Devlin</name></author>
    <author><name>Ming-Wei Chang</name></author>
    <arxiv:doi>10.18653/v1/N19-1423</arxiv:doi>
    <link title="doi" href="http://dx.doi.org/10.18653/v1/N19-1423" rel="related"/>
    <arxiv:journal_ref>NAACL 2019</arxiv:journal_ref>
    <link title="pdf" href="http://arxiv.org/pdf/1810.04805v2" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

func TestParseTwoEntries(t *testing.T) {
	page, err := Parse(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, page.Papers, 2)

	assert.Equal(t, 1234, page.TotalResults)
	assert.Equal(t, 0, page.StartIndex)
	assert.Equal(t, 2, page.ItemsPerPage)
	assert.True(t, page.HasMore())

	first := page.Papers[0]
	assert.Equal(t, "1706.03762", first.ID)
	assert.Equal(t, "v7", first.Version)
	assert.Equal(t, "http://arxiv.org/abs/1706.03762v7", first.AbsURL)
	assert.Equal(t, "Attention Is All You Need", first.Title)
	assert.Equal(t, "The dominant sequence transduction models are based on complex recurrent or convolutional neural networks.", first.Summary)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer", "Niki Parmar"}, first.Authors)
	assert.Equal(t, []types.Category{types.CsCL, types.CsLG}, first.Categories)
	assert.Equal(t, types.CsCL, first.PrimaryCategory)
	assert.Equal(t, "15 pages, 5 figures", first.Comment)
	assert.Equal(t, "http://arxiv.org/pdf/1706.03762v7", first.PDFURL)
	assert.True(t, first.Published.Equal(time.Date(2017, 6, 12, 17, 57, 34, 0, time.UTC)), "published = %v", first.Published)
	assert.True(t, first.Updated.Equal(time.Date(2023, 8, 2, 0, 41, 18, 0, time.UTC)), "updated = %v", first.Updated)

	second := page.Papers[1]
	assert.Equal(t, "1810.04805", second.ID)
	assert.Equal(t, []string{"Jacob Devlin", "Ming-Wei Chang"}, second.Authors)
	assert.Equal(t, "10.18653/v1/N19-1423", second.DOI)
	assert.Equal(t, "NAACL 2019", second.JournalRef)
}

func TestParseEmptyFeed(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/">
  <title>ArXiv Query</title>
  <id>http://arxiv.org/api/x</id>
  <updated>2024-12-02T00:00:00-05:00</updated>
  <opensearch:totalResults>0</opensearch:totalResults>
</feed>`
	page, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 0, page.Len())
	assert.False(t, page.HasMore())
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"html", "<html><body>Service Unavailable</body></html>"},
		{"rss root", `<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`},
		{"plain text", "rate limit exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Parse(strings.NewReader(tt.body))
			assert.ErrorIs(t, err, ErrMalformedFeed)
			assert.Nil(t, page)
		})
	}
}

func TestParsePartialSkipsBadEntries(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query</title>
  <entry>
    <id>http://arxiv.org/abs/2401.00001v1</id>
    <title>Good One</title>
    <published>2024-01-01T00:00:00Z</published>
    <author><name>A</name></author>
  </entry>
  <entry>
    <title>No Id</title>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2401.00003v1</id>
    <title>Bad Date</title>
    <published>yesterday-ish</published>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2401.00004v2</id>
    <title>Good Two</title>
    <author><name>B</name></author>
  </entry>
</feed>`

	page, err := Parse(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialParse)

	var ppe *PartialParseError
	require.True(t, errors.As(err, &ppe))
	require.Len(t, ppe.Failures, 2)
	assert.Equal(t, 1, ppe.Failures[0].Index)
	assert.Equal(t, 2, ppe.Failures[1].Index)
	assert.Equal(t, "http://arxiv.org/abs/2401.00003v1", ppe.Failures[1].ID)

	require.NotNil(t, page)
	require.Len(t, page.Papers, 2)
	assert.Equal(t, "Good One", page.Papers[0].Title)
	assert.Equal(t, "Good Two", page.Papers[1].Title)
}

func TestParseAPIError(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query: interface=api_help</title>
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_1234.12345v1v1</id>
    <title>Error</title>
    <summary>incorrect id format for 1234.12345v1v1</summary>
  </entry>
</feed>`
	_, err := Parse(strings.NewReader(doc))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "incorrect id format for 1234.12345v1v1", apiErr.Message)
}

func TestSplitID(t *testing.T) {
	tests := []struct {
		input       string
		wantID      string
		wantVersion string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041", "v1"},
		{"https://arxiv.org/abs/1706.03762v12", "1706.03762", "v12"},
		{"http://arxiv.org/abs/2301.12345", "2301.12345", ""},
		{"http://arxiv.org/abs/hep-th/9901001v3", "hep-th/9901001", "v3"},
		{"http://arxiv.org/abs/solv-int/9901001", "solv-int/9901001", ""},
		{"not a url", "not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, v := SplitID(tt.input)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantVersion, v)
		})
	}
}
