package stages

// Context keys produced by the pipeline.
const (
	KeyDishName     = "dish_name"
	KeyShoppingList = "shopping_list"
)

// Stage names used in errors and logs.
const (
	StageIdea     = "IdeaStage"
	StageShopping = "ShoppingStage"
	StageRecipe   = "RecipeStage"
)

// Stage prompts. The bot answers in Japanese, matching its audience.
const (
	PromptIdea = `あなたはプロの料理提案AIです。
あなたの仕事は、ユーザーが入力した料理のジャンルやキーワードに「厳密に」基づいて、具体的な料理名を「一つだけ」提案することです。
提案する料理名だけを日本語で出力し、他の余計な言葉は一切含めないでください。

ユーザーのリクエスト: %s`

	// appended to PromptIdea when the conversation already produced a dish,
	// so follow-up requests ("make it vegetarian") refine the previous plan
	PromptIdeaCarryover = `

直前に提案した料理: %s
上記のリクエストが前回の提案への修正であれば、それを踏まえて提案し直してください。`

	PromptShopping = `あなたは几帳面な食料品プランナーです。料理「%s」に基づき、必要な材料の買い物リストを作成してください。
箇条書きのシンプルなリスト形式で、5品目、日本語で返答してください。

ユーザーのリクエスト: %s`

	PromptRecipe = `あなたの仕事は、提供された料理名と買い物リストを、モバイルフレンドリーな最終的なレシピにまとめることです。
「料理のアイデア」「買い物リスト」「作り方」の見出しを使って、簡潔な日本語の応答を**一つだけ**作成してください。

料理名: %s
買い物リスト:
%s`
)
