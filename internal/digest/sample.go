package digest

// Sample returns a demo digest for the dashboard's sample-data mode and for
// tests. Content mirrors a representative agent response.
func Sample() Digest {
	return Digest{
		DigestDate: "2026-02-21",
		Categories: []Category{
			{
				CategoryName: "Productivity & Workflow",
				Tools: []Tool{
					{Name: "TaskPilot AI", Description: "Intelligent task prioritization and workflow automation using natural language processing.", URL: "https://taskpilot.ai", IsNew: true},
					{Name: "MeetingMind", Description: "AI-powered meeting summarizer that generates action items and follow-ups automatically.", URL: "https://meetingmind.io"},
					{Name: "FlowState", Description: "Focus tracking tool that adapts your schedule based on productivity patterns.", URL: "https://flowstate.app", IsNew: true},
				},
			},
			{
				CategoryName: "Creative & Design",
				Tools: []Tool{
					{Name: "PixelForge 3.0", Description: "Next-gen AI image editor with real-time style transfer and object manipulation.", URL: "https://pixelforge.design", IsNew: true},
					{Name: "MotionCraft", Description: "Create professional motion graphics and animations from text prompts.", URL: "https://motioncraft.ai"},
				},
			},
			{
				CategoryName: "Development & Coding",
				Tools: []Tool{
					{Name: "CodeReview AI", Description: "Automated code review tool that catches bugs, security issues, and suggests improvements.", URL: "https://codereview.ai", IsNew: true},
					{Name: "DebugLens", Description: "Visual debugging assistant that explains error traces and suggests fixes in plain language.", URL: "https://debuglens.dev"},
					{Name: "APIForge", Description: "Generate REST and GraphQL APIs from natural language descriptions with full documentation.", URL: "https://apiforge.io", IsNew: true},
				},
			},
			{
				CategoryName: "Business & Analytics",
				Tools: []Tool{
					{Name: "InsightPulse", Description: "Real-time business intelligence dashboard with predictive analytics powered by AI.", URL: "https://insightpulse.co"},
					{Name: "PitchPerfect AI", Description: "Generate investor-ready pitch decks from your business plan in minutes.", URL: "https://pitchperfect.ai", IsNew: true},
				},
			},
			{
				CategoryName: "Research & Learning",
				Tools: []Tool{
					{Name: "ScholarSync", Description: "AI research assistant that finds, summarizes, and cross-references academic papers.", URL: "https://scholarsync.ai", IsNew: true},
					{Name: "LearnPath AI", Description: "Personalized learning roadmap generator based on your goals and current skill level.", URL: "https://learnpath.ai"},
				},
			},
		},
		TotalToolsFound: 12,
		Summary: "Today's digest features 12 notable AI tools across all categories. Key highlights include " +
			"**TaskPilot AI** for intelligent workflow automation, **PixelForge 3.0**'s major update with " +
			"real-time style transfer, and **CodeReview AI** for automated code quality analysis. Six of " +
			"today's tools are brand new releases.",
	}
}
