package redis

import (
	"context"
	"strconv"

	"github.com/harsh17-bit/estate-alerts/internal/db"
)

// XAdd appends an entry to a stream with an auto-generated id, trimming
// to approximately maxLen entries when maxLen > 0.
func (s *Store) XAdd(ctx context.Context, stream string, maxLen int64, fields map[string]string) (string, error) {
	if maxLen > 0 {
		cmd := s.b().Xadd().Key(stream).Maxlen().Almost().Threshold(strconv.FormatInt(maxLen, 10)).Id("*").FieldValue()
		for k, v := range fields {
			cmd = cmd.FieldValue(k, v)
		}
		id, err := s.do(ctx, cmd.Build()).ToString()
		if err != nil {
			return "", &db.Error{Op: db.OpXAdd, Err: err}
		}
		return id, nil
	}

	cmd := s.b().Xadd().Key(stream).Id("*").FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	id, err := s.do(ctx, cmd.Build()).ToString()
	if err != nil {
		return "", &db.Error{Op: db.OpXAdd, Err: err}
	}
	return id, nil
}
