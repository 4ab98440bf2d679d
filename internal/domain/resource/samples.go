package resource

// Samples returns the built-in showcase content. It seeds empty stores and is
// what the client shim shows when the API cannot be reached.
func Samples() []Resource {
	return []Resource{
		{
			ID:          "sample-ai-lesson-plan",
			Title:       "用 AI 辅助设计《春》的朗读课",
			Description: "借助大模型生成朗读节奏提示与分层提问，课堂实录与反思。",
			Type:        TypeArticle,
			Author:      DefaultAuthor,
			Date:        "2025-03-12",
			Tags:        []string{"初中", "朱自清", "朗读教学"},
			Link:        DefaultLink,
			Likes:       42,
			Content:     "一、教学目标\n二、AI 生成的朗读提示\n三、课堂观察与反思",
			CreatedAt:   1741737600,
		},
		{
			ID:          "sample-classical-poetry-pack",
			Title:       "古诗词情境教学资源包",
			Description: "按年级整理的古诗词课件、配乐朗诵与拓展阅读。",
			Type:        TypeResource,
			Author:      DefaultAuthor,
			Date:        "2025-02-20",
			Tags:        []string{"古诗词", "课件", "小学"},
			Link:        DefaultLink,
			Likes:       31,
			CreatedAt:   1740009600,
		},
		{
			ID:          "sample-essay-feedback-tool",
			Title:       "作文批改助手",
			Description: "输入学生习作，获得结构、语言与立意三个维度的修改建议。",
			Type:        TypeTool,
			Author:      DefaultAuthor,
			Date:        "2025-01-08",
			Tags:        []string{"写作", "AI 工具"},
			Link:        DefaultLink,
			Likes:       57,
			CreatedAt:   1736294400,
		},
	}
}
