package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/LearnWithDhruv/RAG-NEWS/common"
	"github.com/LearnWithDhruv/RAG-NEWS/types"
)

// S3Archive writes raw article JSON to S3 for out-of-band inspection.
// Archiving is best-effort: the pipeline logs and continues on failure.
type S3Archive struct {
	client *common.S3
	bucket string
	prefix string
}

// NewS3Archive builds an archiver targeting the given bucket and prefix.
func NewS3Archive(client *common.S3, bucket, prefix string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, prefix: prefix}
}

func (a *S3Archive) ArchiveArticle(ctx context.Context, article *types.Article) error {
	b, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%sarticles/%d.json", a.prefix, article.Ordinal)
	return a.client.Put(ctx, a.bucket, key, bytes.NewReader(b), "application/json")
}
