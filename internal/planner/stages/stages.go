// Package stages declares the fixed three-stage dinner planning chain:
// dish idea, shopping list, final recipe.
package stages

import (
	"fmt"

	"dinner-planner/internal/planner/pipeline"
)

// Dinner returns the stage specs in execution order. The specs are immutable
// and shared across all pipeline runs.
func Dinner() []pipeline.StageSpec {
	return []pipeline.StageSpec{
		{
			Name:      StageIdea,
			OutputKey: KeyDishName,
			BuildPrompt: func(c pipeline.Context, query string) string {
				prompt := fmt.Sprintf(PromptIdea, query)
				if prev, ok := c[KeyDishName]; ok {
					prompt += fmt.Sprintf(PromptIdeaCarryover, prev)
				}
				return prompt
			},
		},
		{
			Name:         StageShopping,
			RequiredKeys: []string{KeyDishName},
			OutputKey:    KeyShoppingList,
			BuildPrompt: func(c pipeline.Context, query string) string {
				return fmt.Sprintf(PromptShopping, c[KeyDishName], query)
			},
		},
		{
			Name:         StageRecipe,
			RequiredKeys: []string{KeyDishName, KeyShoppingList},
			BuildPrompt: func(c pipeline.Context, query string) string {
				return fmt.Sprintf(PromptRecipe, c[KeyDishName], c[KeyShoppingList])
			},
		},
	}
}
