package filter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/s0up4200/wxapis/models"
	"github.com/s0up4200/wxapis/node"
)

func strPtr(s string) *string { return &s }

func testRecord() node.StateChanges {
	usdn := "DG2xFkPdDwKUoBkzGAhQtLpSGzfXLiCYPEzeKH2Ad24p"
	return node.StateChanges{
		TransactionID:   "5Jtx",
		Height:          3000000,
		Timestamp:       uint64(time.Now().AddDate(0, 0, -2).UnixMilli()),
		Sender:          "3Psender",
		TransactionType: 16,
		DApp:            strPtr("3Pdapp"),
		Call: &node.Call{
			Function: "swap",
			Args: []node.Argument{
				{Value: models.StringValue("WAVES")},
				{Value: models.IntegerValue(10)},
			},
		},
		StateChanges: &node.StateChangesData{
			Data: []node.DataEntryResponse{
				{Key: "%s__price", Value: models.IntegerValue(12)},
				{Key: "%s__price", Value: models.IntegerValue(15)},
				{Key: "%s__owner", Value: models.StringValue("3Powner")},
			},
			Transfers: []node.Transfer{
				{Address: "3Pto", Asset: nil, Amount: 500},
				{Address: "3Pto", Asset: nil, Amount: 700},
				{Address: "3Pother", Asset: &usdn, Amount: 3},
			},
		},
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `Function == "swap"`,
			wantErr:    false,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasKey("unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasKey("%s__price") and Height > 100 and totalTransferred("WAVES") >= 1000`,
			wantErr:    false,
		},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.Expression() != tt.expression {
				t.Errorf("expression = %q, want %q", filter.Expression(), tt.expression)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	record := testRecord()

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{name: "function", expression: `Function == "swap"`, expected: true},
		{name: "dapp", expression: `DApp == "3Pdapp"`, expected: true},
		{name: "height", expression: `Height >= 3000000 and Type == 16`, expected: true},
		{name: "has key", expression: `hasKey("%s__price")`, expected: true},
		{name: "missing key", expression: `hasKey("%s__volume")`, expected: false},
		{name: "last write wins", expression: `dataValue("%s__price") == 15`, expected: true},
		{name: "string data", expression: `hasPrefixFold(dataValue("%s__owner"), "3p")`, expected: true},
		{name: "transferred to", expression: `transferredTo("3Pto") and not transferredTo("3Pnobody")`, expected: true},
		{name: "waves total", expression: `totalTransferred("WAVES") == 1200`, expected: true},
		{name: "any transfer", expression: `any(Transfers, .Amount > 600)`, expected: true},
		{name: "all transfers", expression: `all(Transfers, .Asset == "WAVES")`, expected: false},
		{name: "data items", expression: `len(filter(Data, .Type == "integer")) == 2`, expected: true},
		{name: "args", expression: `Args[0] == "WAVES" and Args[1] == 10`, expected: true},
		{name: "recent", expression: `Time > daysAgo(7)`, expected: true},
		{name: "old", expression: `daysSince(Time) > 30`, expected: false},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile filter: %v", err)
			}

			result, err := filter.Match(record)
			if err != nil {
				t.Fatalf("unexpected evaluation error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %v but got %v for expression %q", tt.expected, result, tt.expression)
			}
		})
	}
}

func TestHelperFunctionsCompileAndRun(t *testing.T) {
	calls := map[string]string{
		"daysSince":     `daysSince(parseDate("2020-01-01")) > 1000`,
		"daysAgo":       `daysSince(daysAgo(3)) >= 2`,
		"parseDate":     `parseDate("2020-01-01") < now()`,
		"containsFold":  `containsFold("Hello", "ELL")`,
		"hasPrefixFold": `hasPrefixFold("3PAbc", "3p")`,
		"hasSuffixFold": `hasSuffixFold("abcXYZ", "xyz")`,
		"lower":         `lower("ABC") == "abc"`,
		"upper":         `upper("abc") == "ABC"`,
		"now":           `daysSince(now()) == 0`,
	}

	compiler := NewExprCompiler()
	for name := range createHelperFunctions() {
		t.Run(name, func(t *testing.T) {
			expression, ok := calls[name]
			if !ok {
				t.Fatalf("no call expression for helper %q", name)
			}

			filter, err := compiler.Compile(expression)
			if err != nil {
				t.Fatalf("helper %q does not compile: %v", name, err)
			}
			result, err := filter.Match(testRecord())
			if err != nil {
				t.Fatalf("helper %q failed: %v", name, err)
			}
			if !result {
				t.Errorf("expected %q to be true", expression)
			}
		})
	}
}

func TestMatchWithoutInvocation(t *testing.T) {
	record := node.StateChanges{TransactionID: "plain", TransactionType: 4}

	filter, err := NewExprCompiler().Compile(`Function == "" and len(Data) == 0 and DApp == ""`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	ok, err := filter.Match(record)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	if !ok {
		t.Error("expected record without invocation to match")
	}
}

func TestMatchRuntimeError(t *testing.T) {
	filter, err := NewExprCompiler().Compile(`dataValue("%s__missing") > 5`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	_, err = filter.Match(testRecord())
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *EvaluationError, got %v", err)
	}
	if evalErr.TransactionID != "5Jtx" {
		t.Errorf("transaction id = %q, want 5Jtx", evalErr.TransactionID)
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2)).(*exprCompiler)

	first, err := compiler.Compile(`Height > 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := compiler.Compile(`Height > 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected cached filter to be reused")
	}

	for _, expression := range []string{`Height > 2`, `Height > 3`} {
		if _, err := compiler.Compile(expression); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := compiler.cache.Len(); got != 2 {
		t.Errorf("cache size = %d, want 2", got)
	}
	if _, ok := compiler.cache.Get(`Height > 1`); ok {
		t.Error("expected least recently used entry to be evicted")
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isRouter": func(address string) bool { return address == "3Pdapp" },
	}))

	filter, err := compiler.Compile(`isRouter(DApp)`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}
	ok, err := filter.Match(testRecord())
	if err != nil || !ok {
		t.Errorf("Match() = %v, %v; want true, nil", ok, err)
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	err := m.RegisterFilters(map[string]string{
		"swaps":     `Function == "swap"`,
		"big_waves": `totalTransferred("WAVES") > 1000`,
	})
	if err != nil {
		t.Fatalf("failed to register filters: %v", err)
	}

	if got := m.ListFilters(); len(got) != 2 || got[0] != "big_waves" || got[1] != "swaps" {
		t.Errorf("ListFilters() = %v", got)
	}

	err = m.RegisterFilters(map[string]string{"broken": `Height >`})
	if err == nil {
		t.Fatal("expected error registering broken filter")
	}
	if _, ok := m.GetFilter("broken"); ok {
		t.Error("broken filter should not be registered")
	}

	swaps := testRecord()
	plain := node.StateChanges{TransactionID: "plain", TransactionType: 4}
	records := []node.StateChanges{plain, swaps}

	named, err := m.Resolve("swaps")
	if err != nil {
		t.Fatalf("failed to resolve named filter: %v", err)
	}
	matched, err := m.Select(context.Background(), named, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 1 || matched[0].TransactionID != "5Jtx" {
		t.Errorf("Select() = %v", matched)
	}

	inline, err := m.Resolve(`Type == 4`)
	if err != nil {
		t.Fatalf("failed to resolve inline expression: %v", err)
	}
	matched, err = m.Select(context.Background(), inline, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 1 || matched[0].TransactionID != "plain" {
		t.Errorf("Select() = %v", matched)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Select(ctx, inline, records); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
