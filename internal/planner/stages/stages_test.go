package stages

import (
	"strings"
	"testing"

	"dinner-planner/internal/planner/pipeline"
)

func TestDinner_ChainShape(t *testing.T) {
	specs := Dinner()

	if len(specs) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(specs))
	}

	if specs[0].Name != StageIdea || specs[0].OutputKey != KeyDishName {
		t.Errorf("stage 1: %+v", specs[0])
	}
	if specs[1].Name != StageShopping || specs[1].OutputKey != KeyShoppingList {
		t.Errorf("stage 2: %+v", specs[1])
	}
	if specs[2].Name != StageRecipe || !specs[2].Terminal() {
		t.Errorf("stage 3 must be terminal: %+v", specs[2])
	}
}

func TestDinner_PassesPipelineValidation(t *testing.T) {
	// Generator and logger are untouched by constructor validation
	if _, err := pipeline.New(nil, nil, Dinner()); err != nil {
		t.Fatalf("production chain failed validation: %v", err)
	}
}

func TestDinner_Prompts(t *testing.T) {
	specs := Dinner()

	t.Run("idea prompt carries the query", func(t *testing.T) {
		prompt := specs[0].BuildPrompt(pipeline.NewContext(), "さっぱりした和食")
		if !strings.Contains(prompt, "さっぱりした和食") {
			t.Errorf("query missing from prompt: %q", prompt)
		}
		if strings.Contains(prompt, "直前に提案した料理") {
			t.Errorf("fresh conversation must not mention a previous dish: %q", prompt)
		}
	})

	t.Run("idea prompt carries the previous dish on follow-ups", func(t *testing.T) {
		c := pipeline.Context{KeyDishName: "肉じゃが"}
		prompt := specs[0].BuildPrompt(c, "もっと辛く")
		if !strings.Contains(prompt, "肉じゃが") {
			t.Errorf("previous dish missing from prompt: %q", prompt)
		}
		if !strings.Contains(prompt, "もっと辛く") {
			t.Errorf("query missing from prompt: %q", prompt)
		}
	})

	t.Run("shopping prompt carries dish and query", func(t *testing.T) {
		c := pipeline.Context{KeyDishName: "麻婆豆腐"}
		prompt := specs[1].BuildPrompt(c, "中華")
		if !strings.Contains(prompt, "麻婆豆腐") || !strings.Contains(prompt, "中華") {
			t.Errorf("prompt = %q", prompt)
		}
	})

	t.Run("recipe prompt carries dish and list", func(t *testing.T) {
		c := pipeline.Context{
			KeyDishName:     "麻婆豆腐",
			KeyShoppingList: "- 豆腐\n- ひき肉",
		}
		prompt := specs[2].BuildPrompt(c, "中華")
		if !strings.Contains(prompt, "麻婆豆腐") || !strings.Contains(prompt, "- 豆腐") {
			t.Errorf("prompt = %q", prompt)
		}
	})
}
