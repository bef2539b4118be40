package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/docketlabs/docket/internal/domain"
	domev "github.com/docketlabs/docket/internal/domain/evidence"
	"github.com/docketlabs/docket/internal/etl"
)

// --- Mocks ---

type fakeRepo struct {
	mappedBatches    [][]domev.Mapped
	catalogedBatches [][]domev.Cataloged
	insertErr        error
}

func (f *fakeRepo) InsertMapped(_ context.Context, records []domev.Mapped) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mappedBatches = append(f.mappedBatches, records)
	return nil
}

func (f *fakeRepo) InsertCataloged(_ context.Context, records []domev.Cataloged) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.catalogedBatches = append(f.catalogedBatches, records)
	return nil
}

type fakeProcs struct {
	err error
}

func (f *fakeProcs) Get(_ context.Context, id int64) (domain.Process, error) {
	if f.err != nil {
		return domain.Process{}, f.err
	}
	return domain.Process{ID: id}, nil
}

const mappedCSV = "Tipo de Evidência,Trecho,Conteúdo,Resumo,Referência\n" +
	"contrato,cláusula 3,texto integral,resumo breve,fls. 10/12\n" +
	"depoimento,linha 2,texto do depoimento,,fls. 4\n"

// --- Tests ---

func TestImport_MappedCSV(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, &fakeProcs{}, zap.NewNop())

	res, err := svc.Import(
		context.Background(), 1, domev.SourceMapped,
		strings.NewReader(mappedCSV), etl.FormatCSV,
	)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if res.Rows != 2 || res.Ingested != 2 {
		t.Errorf("result = %+v", res)
	}
	if len(repo.mappedBatches) != 1 {
		t.Fatalf("expected one batch commit, got %d", len(repo.mappedBatches))
	}

	batch := repo.mappedBatches[0]
	if batch[0].Kind != "contrato" || batch[0].Content != "texto integral" {
		t.Errorf("record 0 = %+v", batch[0])
	}
	if batch[0].PageStart == nil || *batch[0].PageStart != 10 ||
		batch[0].PageEnd == nil || *batch[0].PageEnd != 12 {
		t.Errorf("record 0 pages = %v..%v", batch[0].PageStart, batch[0].PageEnd)
	}
	if batch[1].PageStart == nil || *batch[1].PageStart != 4 {
		t.Errorf("record 1 page start = %v", batch[1].PageStart)
	}
}

func TestImport_UnreadableSource_ZeroRecords(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, &fakeProcs{}, zap.NewNop())

	_, err := svc.Import(
		context.Background(), 1, domev.SourceMapped,
		strings.NewReader("not a zip archive"), etl.FormatXLSX,
	)
	if !errors.Is(err, domain.ErrImportSource) {
		t.Fatalf("expected import source error, got %v", err)
	}
	if len(repo.mappedBatches) != 0 {
		t.Error("no records may be committed when the source cannot be read")
	}
}

func TestImport_ProcessMissing(t *testing.T) {
	svc := New(&fakeRepo{}, &fakeProcs{err: domain.ErrProcessNotFound}, zap.NewNop())

	_, err := svc.Import(
		context.Background(), 1, domev.SourceMapped,
		strings.NewReader(mappedCSV), etl.FormatCSV,
	)
	if !errors.Is(err, domain.ErrProcessNotFound) {
		t.Fatalf("expected process not found, got %v", err)
	}
}

func TestImport_StoreFailure(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("write refused")}
	svc := New(repo, &fakeProcs{}, zap.NewNop())

	_, err := svc.Import(
		context.Background(), 1, domev.SourceMapped,
		strings.NewReader(mappedCSV), etl.FormatCSV,
	)
	if err == nil {
		t.Fatal("expected error from store failure")
	}
}

func TestImport_CatalogedCSV(t *testing.T) {
	csv := "origem_tipo,trecho,referencia,chave_nfe,cnpj_emitente,numero_nf,valor_total\n" +
		"nota fiscal,trecho x,fls. 20,35240712345678000190550010000000011000000011,12.345.678/0001-90,123,4500.00\n"

	repo := &fakeRepo{}
	svc := New(repo, &fakeProcs{}, zap.NewNop())

	res, err := svc.Import(
		context.Background(), 1, domev.SourceCataloged,
		strings.NewReader(csv), etl.FormatCSV,
	)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if res.Ingested != 1 {
		t.Fatalf("ingested = %d", res.Ingested)
	}

	rec := repo.catalogedBatches[0][0]
	if rec.Kind != "nota fiscal" {
		t.Errorf("kind = %q", rec.Kind)
	}
	if rec.Fiscal.DocumentNumber == nil || *rec.Fiscal.DocumentNumber != "123" {
		t.Errorf("document number = %v", rec.Fiscal.DocumentNumber)
	}
	if rec.Fiscal.DocumentKey == nil ||
		*rec.Fiscal.DocumentKey != "35240712345678000190550010000000011000000011" {
		t.Errorf("document key = %v", rec.Fiscal.DocumentKey)
	}
	if rec.PageStart == nil || *rec.PageStart != 20 {
		t.Errorf("page start = %v", rec.PageStart)
	}
}

func TestImport_UnknownVariant(t *testing.T) {
	svc := New(&fakeRepo{}, &fakeProcs{}, zap.NewNop())

	_, err := svc.Import(
		context.Background(), 1, domev.SourceType("bogus"),
		strings.NewReader(mappedCSV), etl.FormatCSV,
	)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
