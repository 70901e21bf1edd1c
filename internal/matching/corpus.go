package matching

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/sha1n/staffing-mcp/internal/domain"
)

// AnalyzerName is the bleve analyzer applied to keyword documents: unicode
// word segmentation followed by the Porter stemmer. Keyword documents are
// already lowercase and free of stop words, so neither filter is applied.
const AnalyzerName = "staffing_keywords"

// CreateIndexMapping creates the bleve index mapping for keyword documents.
func CreateIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(AnalyzerName, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{porter.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register analyzer: %w", err)
	}

	docMapping := bleve.NewDocumentMapping()

	// Keywords - analyzed, only the term dictionary is needed
	keywordsField := bleve.NewTextFieldMapping()
	keywordsField.Analyzer = AnalyzerName
	keywordsField.Store = false
	keywordsField.IncludeInAll = false
	docMapping.AddFieldMappingsAt(domain.DocumentFieldKeywords, keywordsField)

	// ID - neither indexed nor stored, documents are addressed by position
	idField := bleve.NewTextFieldMapping()
	idField.Index = false
	idField.Store = false
	idField.IncludeInAll = false
	docMapping.AddFieldMappingsAt(domain.DocumentFieldID, idField)

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = AnalyzerName

	return indexMapping, nil
}

// Corpus is a disposable in-memory index over one set of candidate keyword
// documents. It lives for a single ranking call and must be closed.
type Corpus struct {
	index   bleve.Index
	analyze func([]byte) analysis.TokenStream
	docs    []domain.KeywordDocument
}

// NewCorpus indexes docs into a fresh in-memory index.
func NewCorpus(docs []domain.KeywordDocument) (*Corpus, error) {
	indexMapping, err := CreateIndexMapping()
	if err != nil {
		return nil, err
	}

	analyzer := indexMapping.AnalyzerNamed(AnalyzerName)
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer %q not registered", AnalyzerName)
	}

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := index.NewBatch()
	for i, doc := range docs {
		// Position in the input slice is the document identity; candidate IDs
		// are only carried through for reporting.
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to add document %d: %w", i, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("batch index failed: %w", err)
	}

	return &Corpus{
		index:   index,
		analyze: analyzer.Analyze,
		docs:    docs,
	}, nil
}

// Len returns the number of documents in the corpus.
func (c *Corpus) Len() int {
	return len(c.docs)
}

// Terms runs text through the corpus analyzer and returns its term frequencies.
func (c *Corpus) Terms(text string) map[string]int {
	tf := make(map[string]int)
	for _, token := range c.analyze([]byte(text)) {
		tf[string(token.Term)]++
	}
	return tf
}

// DocumentFrequencies reads the number of documents containing each term
// from the index term dictionary, along with the total document count.
func (c *Corpus) DocumentFrequencies(ctx context.Context) (df map[string]uint64, total uint64, err error) {
	total, err = c.index.DocCount()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	dict, err := c.index.FieldDict(domain.DocumentFieldKeywords)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open term dictionary: %w", err)
	}
	defer func() {
		if cerr := dict.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close term dictionary: %w", cerr)
		}
	}()

	df = make(map[string]uint64)
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		entry, err := dict.Next()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read term dictionary: %w", err)
		}
		if entry == nil {
			break
		}
		df[entry.Term] = entry.Count
	}

	return df, total, nil
}

// Close releases the index.
func (c *Corpus) Close() error {
	if c.index == nil {
		return nil
	}
	err := c.index.Close()
	c.index = nil
	return err
}
