package extract

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/storepilot/storepilot/agent/contract"
)

type fakeModel struct {
	reply contractx.ChatReply
	err   error

	gotSystem string
	gotTools  []contractx.ToolSpec
}

func (f *fakeModel) Complete(ctx context.Context, system string, msgs []contractx.ChatMessage, tools []contractx.ToolSpec) (contractx.ChatReply, error) {
	f.gotSystem = system
	f.gotTools = tools
	return f.reply, f.err
}

func TestExtract(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: contractx.ChatReply{
		Content: `[{"name":"Red Shoes","price":20000,"sku":""},{"name":"Blue Cap","price":5000,"sku":"CAP-BLU"}]`,
	}}
	records, err := New(model).Extract(context.Background(), "red shoes 20k and a blue cap 5k")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Red Shoes" || records[0].Price != 20000 {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].SKU != "CAP-BLU" {
		t.Errorf("second sku = %q", records[1].SKU)
	}
	if len(model.gotTools) != 0 {
		t.Error("extractor must not expose tools to the model")
	}
}

func TestExtractStripsCodeFences(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: contractx.ChatReply{
		Content: "```json\n[{\"name\":\"Mug\",\"price\":900}]\n```",
	}}
	records, err := New(model).Extract(context.Background(), "mug 900")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Mug" {
		t.Errorf("records = %+v", records)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := New(&fakeModel{}).Extract(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}

func TestExtractMalformedJSON(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: contractx.ChatReply{Content: "Sure! Here are your products: shoes and caps."}}
	_, err := New(model).Extract(context.Background(), "shoes and caps")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestExtractBlankReply(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: contractx.ChatReply{Content: "```\n```"}}
	_, err := New(model).Extract(context.Background(), "anything")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestExtractModelFailure(t *testing.T) {
	t.Parallel()

	model := &fakeModel{err: errors.New("timeout")}
	_, err := New(model).Extract(context.Background(), "mug 900")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("err = %v, want ErrModelInvoke", err)
	}
}

func TestExtractDropsNamelessRecords(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: contractx.ChatReply{
		Content: `[{"name":"  ","price":10},{"name":" Mug ","price":900}]`,
	}}
	records, err := New(model).Extract(context.Background(), "mug 900")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Mug" {
		t.Errorf("records = %+v", records)
	}
}

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"[1]":                   "[1]",
		"```json\n[1]\n```":     "[1]",
		"```\n[1]\n```":         "[1]",
		"  ```json\n[1]\n``` ":  "[1]",
	}
	for in, want := range cases {
		if got := stripCodeFences(in); got != want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}
