package parquetio

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

type field struct {
	Tag string `json:"Tag"`
}

type jsonSchema struct {
	Tag    string  `json:"Tag"`
	Fields []field `json:"Fields"`
}

// parquetSchemaJSON builds the JSON schema understood by the JSONWriter.
// Every column is written OPTIONAL so missing cells survive.
func parquetSchemaJSON(s tbl.Schema) (string, error) {
	sc := jsonSchema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		if strings.ContainsAny(cs.Name, ",=") {
			return "", errors.Errorf("parquet: column name %q cannot be used in a schema tag", cs.Name)
		}
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case tbl.KindFloat:
			tag += "DOUBLE"
		case tbl.KindInt:
			tag += "INT64"
		case tbl.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, err := json.Marshal(sc)
	return string(b), err
}

// WriteAll writes a Frame to a Parquet file.
func WriteAll(path string, f *tbl.Frame) (err error) {
	schema, err := parquetSchemaJSON(f.Schema())
	if err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	writer, err := pw.NewJSONWriter(schema, fw, 4)
	if err != nil {
		_ = fw.Close()
		return errors.Wrap(err, "parquet writer init")
	}
	defer func() {
		if stopErr := writer.WriteStop(); stopErr != nil && err == nil {
			err = errors.Wrap(stopErr, "parquet flush")
		}
		if closeErr := fw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	for r := 0; r < f.Rows(); r++ {
		rec, err := json.Marshal(record(f, r))
		if err != nil {
			return errors.Wrapf(err, "parquet encode row %d", r)
		}
		if err := writer.Write(string(rec)); err != nil {
			return errors.Wrapf(err, "parquet write row %d", r)
		}
	}
	return nil
}

// record holds the non-missing cells of one row keyed by column name.
func record(f *tbl.Frame, r int) map[string]any {
	rec := make(map[string]any, f.Cols())
	for i := 0; i < f.Cols(); i++ {
		col := f.Column(i)
		if col.IsNull(r) {
			continue
		}
		switch c := col.(type) {
		case *tbl.FloatColumn:
			rec[c.Name()], _ = c.Get(r)
		case *tbl.IntColumn:
			rec[c.Name()], _ = c.Get(r)
		case *tbl.BoolColumn:
			rec[c.Name()], _ = c.Get(r)
		case *tbl.StringColumn:
			rec[c.Name()], _ = c.Get(r)
		case *tbl.TimeColumn:
			v, _ := c.Get(r)
			rec[c.Name()] = v.Format(time.RFC3339)
		}
	}
	return rec
}
