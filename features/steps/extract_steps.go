//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/RustedBytes/extract-audio/cmd"
	"github.com/RustedBytes/extract-audio/domain/extract"

	"github.com/cucumber/godog"
)

// extractContext holds test state for extraction scenarios
type extractContext struct {
	workDir      string
	shardPath    string
	format       extract.Format
	outputDir    string
	metadataFile string
	output       bytes.Buffer
	err          error
}

// SharedExtractContext is reset before each scenario via Before hook
var SharedExtractContext *extractContext

func getExtractContext() *extractContext {
	return SharedExtractContext
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		workDir, err := os.MkdirTemp("", "extract-audio-features-")
		if err != nil {
			return c, err
		}
		SharedExtractContext = &extractContext{
			workDir:   workDir,
			format:    extract.FormatParquet,
			outputDir: filepath.Join(workDir, "out"),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedExtractContext != nil {
			os.RemoveAll(SharedExtractContext.workDir)
		}
		SharedExtractContext = nil
		return c, nil
	})

	ctx.Step(`^a parquet shard with two sample rows$`, aParquetShardWithTwoSampleRows)
	ctx.Step(`^an arrow shard with two sample rows$`, anArrowShardWithTwoSampleRows)
	ctx.Step(`^a parquet shard lacking the audio column$`, aParquetShardLackingTheAudioColumn)
	ctx.Step(`^extraction has already run once$`, extractionHasAlreadyRunOnce)
	ctx.Step(`^an output file "([^"]*)" already exists with content "([^"]*)"$`, anOutputFileAlreadyExistsWithContent)
	ctx.Step(`^I run extraction with (\d+) workers$`, iRunExtractionWithWorkers)
	ctx.Step(`^I run extraction with a metadata file$`, iRunExtractionWithAMetadataFile)
	ctx.Step(`^I attempt extraction$`, iAttemptExtraction)
	ctx.Step(`^the run should succeed$`, theRunShouldSucceed)
	ctx.Step(`^the run should fail mentioning "([^"]*)"$`, theRunShouldFailMentioning)
	ctx.Step(`^the run should report (\d+) written and (\d+) skipped$`, theRunShouldReportWrittenAndSkipped)
	ctx.Step(`^the output directory should contain exactly:$`, theOutputDirectoryShouldContainExactly)
	ctx.Step(`^the output directory should be empty$`, theOutputDirectoryShouldBeEmpty)
	ctx.Step(`^the output file "([^"]*)" should still contain "([^"]*)"$`, theOutputFileShouldStillContain)
	ctx.Step(`^the metadata file should contain rows:$`, theMetadataFileShouldContainRows)
}

func sampleSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{
			Name: "audio",
			Type: arrow.StructOf(
				arrow.Field{Name: "path", Type: arrow.BinaryTypes.String, Nullable: true},
				arrow.Field{Name: "bytes", Type: arrow.BinaryTypes.Binary, Nullable: true},
			),
			Nullable: true,
		},
		{Name: "transcription", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
}

// sampleRecord builds the two-row fixture batch: sample1.wav carries a
// transcription, sample2.wav does not.
func sampleRecord(schema *arrow.Schema) arrow.Record {
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	audioBuilder := builder.Field(0).(*array.StructBuilder)
	pathBuilder := audioBuilder.FieldBuilder(0).(*array.StringBuilder)
	bytesBuilder := audioBuilder.FieldBuilder(1).(*array.BinaryBuilder)
	transBuilder := builder.Field(1).(*array.StringBuilder)

	audioBuilder.Append(true)
	pathBuilder.Append("audio/sample1.wav")
	bytesBuilder.Append([]byte{1, 2, 3})
	transBuilder.Append("hello world")

	audioBuilder.Append(true)
	pathBuilder.Append("audio/sample2.wav")
	bytesBuilder.Append([]byte{0, 1})
	transBuilder.Append("")

	return builder.NewRecord()
}

func aParquetShardWithTwoSampleRows() error {
	e := getExtractContext()
	schema := sampleSchema()
	rec := sampleRecord(schema)
	defer rec.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer table.Release()

	e.shardPath = filepath.Join(e.workDir, "input.parquet")
	e.format = extract.FormatParquet

	f, err := os.Create(e.shardPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return pqarrow.WriteTable(table, f, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
}

func anArrowShardWithTwoSampleRows() error {
	e := getExtractContext()
	schema := sampleSchema()
	rec := sampleRecord(schema)
	defer rec.Release()

	e.shardPath = filepath.Join(e.workDir, "input.arrow")
	e.format = extract.FormatArrow

	f, err := os.Create(e.shardPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := ipc.NewWriter(f, ipc.WithSchema(schema))
	if err := w.Write(rec); err != nil {
		return err
	}
	return w.Close()
}

func aParquetShardLackingTheAudioColumn() error {
	e := getExtractContext()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "transcription", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	builder.Field(0).(*array.StringBuilder).Append("orphan row")
	rec := builder.NewRecord()
	builder.Release()
	defer rec.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer table.Release()

	e.shardPath = filepath.Join(e.workDir, "bad.parquet")
	e.format = extract.FormatParquet

	f, err := os.Create(e.shardPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return pqarrow.WriteTable(table, f, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
}

func (e *extractContext) run(workers int) error {
	return cmd.RunExtraction(context.Background(), cmd.RunOptions{
		Input:        e.shardPath,
		Format:       e.format,
		OutputDir:    e.outputDir,
		Threads:      workers,
		MetadataFile: e.metadataFile,
	}, &e.output)
}

func extractionHasAlreadyRunOnce() error {
	return getExtractContext().run(2)
}

func anOutputFileAlreadyExistsWithContent(name, content string) error {
	e := getExtractContext()
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.outputDir, name), []byte(content), 0644)
}

func iRunExtractionWithWorkers(workers int) error {
	e := getExtractContext()
	e.output.Reset()
	e.err = e.run(workers)
	return nil
}

func iRunExtractionWithAMetadataFile() error {
	e := getExtractContext()
	e.metadataFile = filepath.Join(e.workDir, "meta.csv")
	e.output.Reset()
	e.err = e.run(2)
	return nil
}

func iAttemptExtraction() error {
	e := getExtractContext()
	e.output.Reset()
	e.err = e.run(2)
	return nil
}

func theRunShouldSucceed() error {
	e := getExtractContext()
	if e.err != nil {
		return fmt.Errorf("expected success, got: %v", e.err)
	}
	return nil
}

func theRunShouldFailMentioning(fragment string) error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected the run to fail")
	}
	if !strings.Contains(e.err.Error(), fragment) {
		return fmt.Errorf("error %q does not mention %q", e.err, fragment)
	}
	return nil
}

func theRunShouldReportWrittenAndSkipped(written, skipped int) error {
	e := getExtractContext()
	want := fmt.Sprintf("Total: %d written, %d skipped", written, skipped)
	if !strings.Contains(e.output.String(), want) {
		return fmt.Errorf("output %q does not contain %q", e.output.String(), want)
	}
	return nil
}

func theOutputDirectoryShouldContainExactly(table *godog.Table) error {
	e := getExtractContext()

	var want []string
	for _, row := range table.Rows {
		want = append(want, row.Cells[0].Value)
	}
	sort.Strings(want)

	entries, err := os.ReadDir(e.outputDir)
	if err != nil {
		return err
	}
	var got []string
	for _, entry := range entries {
		got = append(got, entry.Name())
	}
	sort.Strings(got)

	if len(got) != len(want) {
		return fmt.Errorf("output directory has %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("output directory has %v, want %v", got, want)
		}
	}
	return nil
}

func theOutputDirectoryShouldBeEmpty() error {
	e := getExtractContext()
	entries, err := os.ReadDir(e.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(entries) != 0 {
		return fmt.Errorf("output directory is not empty: %d entries", len(entries))
	}
	return nil
}

func theOutputFileShouldStillContain(name, content string) error {
	e := getExtractContext()
	data, err := os.ReadFile(filepath.Join(e.outputDir, name))
	if err != nil {
		return err
	}
	if string(data) != content {
		return fmt.Errorf("file %s contains %q, want %q", name, data, content)
	}
	return nil
}

func theMetadataFileShouldContainRows(table *godog.Table) error {
	e := getExtractContext()

	f, err := os.Open(e.metadataFile)
	if err != nil {
		return err
	}
	defer f.Close()

	got, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return err
	}

	if len(got) != len(table.Rows) {
		return fmt.Errorf("metadata has %d rows, want %d", len(got), len(table.Rows))
	}
	for i, row := range table.Rows {
		for j, cell := range row.Cells {
			if got[i][j] != cell.Value {
				return fmt.Errorf("metadata row %d column %d = %q, want %q", i, j, got[i][j], cell.Value)
			}
		}
	}
	return nil
}
