package main

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hoisie/redis"
)

// Hit is the set of match offsets for one document.
type Hit struct {
	Document string `json:"document"`
	Offsets  []int  `json:"offsets"`
}

type SearchResult struct {
	Pattern string `json:"pattern"`
	Hits    []Hit  `json:"hits"`
}

// Document is one indexed corpus entry. Size excludes the sentinel.
type Document struct {
	Name string
	Size int
	Tree *SuffixTree
}

// Corpus keeps a suffix tree per document, loading document bodies from a
// local directory and optionally a redis hash. The directory wins on name
// collisions.
type Corpus struct {
	fileDocs  *FileDocs
	redisDocs *RedisDocs
	sentinel  byte

	mu   sync.RWMutex
	docs map[string]*Document
}

func NewCorpus(cs CorpusSettings, rs RedisSettings) *Corpus {
	fileDocs := &FileDocs{dir: cs.Dir}

	var redisDocs *RedisDocs
	if cs.RedisEnable {
		rc := &redis.Client{Addr: rs.Addr(), Db: rs.DB, Password: rs.Password}
		redisDocs = &RedisDocs{redis: rc, key: cs.RedisKey}
	}

	corpus := &Corpus{
		fileDocs:  fileDocs,
		redisDocs: redisDocs,
		sentinel:  cs.SentinelByte(),
		docs:      make(map[string]*Document),
	}
	corpus.Refresh()
	corpus.refresh(cs.Interval)
	return corpus
}

// Search fans pattern out across every document tree. Documents without a
// match are left out of the hit list.
func (c *Corpus) Search(pattern string) *SearchResult {
	result := &SearchResult{Pattern: pattern, Hits: []Hit{}}

	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.docs))
	for name := range c.docs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		offsets := c.docs[name].Tree.Find(pattern)
		if len(offsets) == 0 {
			continue
		}
		result.Hits = append(result.Hits, Hit{Document: name, Offsets: offsets})
	}
	return result
}

// Document returns one indexed entry by name.
func (c *Corpus) Document(name string) (*Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[name]
	return doc, ok
}

// Documents lists indexed entries sorted by name.
func (c *Corpus) Documents() []*Document {
	c.mu.RLock()
	docs := make([]*Document, 0, len(c.docs))
	for _, doc := range c.docs {
		docs = append(docs, doc)
	}
	c.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs
}

// Refresh reloads every source and rebuilds the per-document trees. Bodies
// that collide with the sentinel are skipped, never truncated.
func (c *Corpus) Refresh() {
	bodies := make(map[string]string)

	if c.redisDocs != nil {
		c.redisDocs.Load(bodies)
	}
	c.fileDocs.Load(bodies)

	docs := make(map[string]*Document, len(bodies))
	for name, body := range bodies {
		tree, err := BuildWithSentinel(body, c.sentinel)
		if err != nil {
			logger.Warn("Skip document %s: %s", name, err)
			continue
		}
		docs[name] = &Document{Name: name, Size: len(body), Tree: tree}
	}

	c.mu.Lock()
	c.docs = docs
	c.mu.Unlock()
	logger.Debug("corpus refreshed: %d documents indexed", len(docs))
}

/*
Reindex corpus documents from the local directory and redis per interval
*/
func (c *Corpus) refresh(interval int) {
	if interval <= 0 {
		interval = 60
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	go func() {
		for {
			<-ticker.C
			c.Refresh()
		}
	}()
}

type RedisDocs struct {
	redis *redis.Client
	key   string
}

func (r *RedisDocs) Load(bodies map[string]string) {
	stored := make(map[string]string)
	err := r.redis.Hgetall(r.key, stored)
	if err != nil {
		logger.Warn("Load documents from redis failed %s", err)
		return
	}
	for name, body := range stored {
		if !validDocName(name) {
			continue
		}
		bodies[name] = body
	}
	logger.Debug("loaded %d documents from redis", len(stored))
}

type FileDocs struct {
	dir string
}

func (f *FileDocs) Load(bodies map[string]string) {
	if f.dir == "" {
		return
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		logger.Warn("Load documents from %s failed %s", f.dir, err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !validDocName(name) {
			continue
		}
		body, err := os.ReadFile(filepath.Join(f.dir, name))
		if err != nil {
			logger.Warn("Read document %s failed %s", name, err)
			continue
		}
		bodies[name] = string(body)
	}
	logger.Debug("loaded documents from %s", f.dir)
}
