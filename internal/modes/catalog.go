// Package modes holds the in-code persona catalog. The catalog is
// administrator-controlled reference data: it is written to the store
// wholesale by the seed step and is read-only at runtime.
package modes

import "personachat/internal/store"

const developerPrompt = `You are a Developer Assistant AI. Your personality is:
- Concise and technical
- Logical and methodical
- Expert in programming languages, frameworks, and best practices
- Provide code examples and debugging help
- Use technical jargon appropriately
- Focus on efficiency and optimization

Answer questions with precision and include code snippets when relevant.`

const learnerPrompt = `You are a Learning and Tutoring AI. Your personality is:
- Encouraging and supportive
- Patient and didactic
- Break down complex concepts into simple steps
- Use analogies and examples to explain
- Celebrate progress and achievements
- Make learning fun and engaging
- Ask questions to ensure understanding

Help users learn and grow their skills with enthusiasm.`

const hrPrompt = `You are an HR and IT Operations Assistant. Your personality is:
- Polished and professional
- Supportive and empathetic
- Process-driven and organized
- Clear in communication
- Helpful with policies and procedures
- Maintain confidentiality and professionalism

Assist with HR queries, IT support, and operational matters in a professional manner.`

// Catalog returns the full persona catalog in display order.
func Catalog() []store.Mode {
	return []store.Mode{
		{
			Name:         "developer",
			DisplayName:  "Developer Assistant",
			Icon:         "💻",
			Description:  "Technical coding assistance and debugging",
			SystemPrompt: developerPrompt,
			Greeting:     "Let's crush some code, {name}.",
			Themes: []store.Theme{
				{
					Name:        "neural-blue",
					DisplayName: "Neural Blue",
					Colors: store.ThemeColors{
						Primary:            "#1E88E5",
						Secondary:          "#90CAF9",
						Accent:             "#E3F2FD",
						Background:         "#E3F2FD",
						BackgroundGradient: []string{"#E3F2FD", "#BBDEFB", "#90CAF9"},
						Text:               "#0D47A1",
						TextSecondary:      "#1565C0",
						UserBubble:         "#1E88E5",
						AIBubble:           "#BBDEFB",
						Border:             "#90CAF960",
					},
				},
				{
					Name:        "midnight-cyan",
					DisplayName: "Midnight Cyan",
					Colors: store.ThemeColors{
						Primary:            "#00ACC1",
						Secondary:          "#26C6DA",
						Accent:             "#80DEEA",
						Background:         "#0E141B",
						BackgroundGradient: []string{"#0E141B", "#1a2530", "#0E141B"},
						Text:               "#f5f5f5",
						TextSecondary:      "#b0bec5",
						UserBubble:         "#00ACC1",
						AIBubble:           "#1a2530",
						Border:             "#00ACC160",
					},
				},
				{
					Name:        "cyber-indigo",
					DisplayName: "Cyber Indigo",
					Colors: store.ThemeColors{
						Primary:            "#3949AB",
						Secondary:          "#5C6BC0",
						Accent:             "#9FA8DA",
						Background:         "#0A0D1A",
						BackgroundGradient: []string{"#0A0D1A", "#1a1f3a", "#0A0D1A"},
						Text:               "#f5f5f5",
						TextSecondary:      "#c5cae9",
						UserBubble:         "#3949AB",
						AIBubble:           "#1a1f3a",
						Border:             "#3949AB60",
					},
				},
				{
					Name:        "graphite-silver",
					DisplayName: "Graphite Silver",
					Colors: store.ThemeColors{
						Primary:            "#B0BEC5",
						Secondary:          "#CFD8DC",
						Accent:             "#ECEFF1",
						Background:         "#121212",
						BackgroundGradient: []string{"#121212", "#1e1e1e", "#121212"},
						Text:               "#f5f5f5",
						TextSecondary:      "#cfd8dc",
						UserBubble:         "#B0BEC5",
						AIBubble:           "#1e1e1e",
						Border:             "#B0BEC560",
					},
				},
			},
		},
		{
			Name:         "learner",
			DisplayName:  "Learning Mode",
			Icon:         "🎓",
			Description:  "Interactive tutoring and skill development",
			SystemPrompt: learnerPrompt,
			Greeting:     "Ready for your next challenge, {name}?",
			Themes: []store.Theme{
				{
					Name:        "aurora-teal",
					DisplayName: "Aurora Teal",
					Colors: store.ThemeColors{
						Primary:            "#00897B",
						Secondary:          "#4DB6AC",
						Accent:             "#E0F2F1",
						Background:         "#E0F2F1",
						BackgroundGradient: []string{"#E0F2F1", "#B2DFDB", "#80CBC4"},
						Text:               "#004D40",
						TextSecondary:      "#00695C",
						UserBubble:         "#00897B",
						AIBubble:           "#B2DFDB",
						Border:             "#4DB6AC60",
					},
				},
				{
					Name:        "cosmic-lilac",
					DisplayName: "Cosmic Lilac",
					Colors: store.ThemeColors{
						Primary:            "#7E57C2",
						Secondary:          "#B39DDB",
						Accent:             "#EDE7F6",
						Background:         "#EDE7F6",
						BackgroundGradient: []string{"#EDE7F6", "#D1C4E9", "#B39DDB"},
						Text:               "#4A148C",
						TextSecondary:      "#6A1B9A",
						UserBubble:         "#7E57C2",
						AIBubble:           "#D1C4E9",
						Border:             "#B39DDB60",
					},
				},
				{
					Name:        "obsidian-purple",
					DisplayName: "Obsidian Purple",
					Colors: store.ThemeColors{
						Primary:            "#8E24AA",
						Secondary:          "#AB47BC",
						Accent:             "#CE93D8",
						Background:         "#1A0B24",
						BackgroundGradient: []string{"#1A0B24", "#2d1b3d", "#1A0B24"},
						Text:               "#f5f5f5",
						TextSecondary:      "#e1bee7",
						UserBubble:         "#8E24AA",
						AIBubble:           "#2d1b3d",
						Border:             "#8E24AA60",
					},
				},
				{
					Name:        "sage-green",
					DisplayName: "Sage Green",
					Colors: store.ThemeColors{
						Primary:            "#43A047",
						Secondary:          "#A5D6A7",
						Accent:             "#E8F5E9",
						Background:         "#E8F5E9",
						BackgroundGradient: []string{"#E8F5E9", "#C8E6C9", "#A5D6A7"},
						Text:               "#1B5E20",
						TextSecondary:      "#2E7D32",
						UserBubble:         "#43A047",
						AIBubble:           "#C8E6C9",
						Border:             "#A5D6A760",
					},
				},
			},
		},
		{
			Name:         "hr",
			DisplayName:  "HR/IT Operations",
			Icon:         "🧾",
			Description:  "Professional HR and IT support",
			SystemPrompt: hrPrompt,
			Greeting:     "Welcome back, {name}. Let's keep operations smooth.",
			Themes: []store.Theme{
				{
					Name:        "solar-amber",
					DisplayName: "Solar Amber",
					Colors: store.ThemeColors{
						Primary:            "#F9A825",
						Secondary:          "#FFD54F",
						Accent:             "#FFF8E1",
						Background:         "#FFF8E1",
						BackgroundGradient: []string{"#FFF8E1", "#FFECB3", "#FFD54F"},
						Text:               "#F57F17",
						TextSecondary:      "#F9A825",
						UserBubble:         "#F9A825",
						AIBubble:           "#FFECB3",
						Border:             "#FFD54F60",
					},
				},
				{
					Name:        "emerald-noir",
					DisplayName: "Emerald Noir",
					Colors: store.ThemeColors{
						Primary:            "#2E7D32",
						Secondary:          "#66BB6A",
						Accent:             "#A5D6A7",
						Background:         "#0C1A0C",
						BackgroundGradient: []string{"#0C1A0C", "#1b4d1b", "#0C1A0C"},
						Text:               "#f5f5f5",
						TextSecondary:      "#a5d6a7",
						UserBubble:         "#2E7D32",
						AIBubble:           "#1b4d1b",
						Border:             "#2E7D3260",
					},
				},
				{
					Name:        "crimson-edge",
					DisplayName: "Crimson Edge",
					Colors: store.ThemeColors{
						Primary:            "#E53935",
						Secondary:          "#EF9A9A",
						Accent:             "#FFEBEE",
						Background:         "#FFEBEE",
						BackgroundGradient: []string{"#FFEBEE", "#FFCDD2", "#EF9A9A"},
						Text:               "#B71C1C",
						TextSecondary:      "#C62828",
						UserBubble:         "#E53935",
						AIBubble:           "#FFCDD2",
						Border:             "#EF9A9A60",
					},
				},
				{
					Name:        "sunset-coral",
					DisplayName: "Sunset Coral",
					Colors: store.ThemeColors{
						Primary:            "#FF7043",
						Secondary:          "#FF8A65",
						Accent:             "#FFCCBC",
						Background:         "#1A0E0A",
						BackgroundGradient: []string{"#1A0E0A", "#3d1f1a", "#1A0E0A"},
						Text:               "#f5f5f5",
						TextSecondary:      "#ffccbc",
						UserBubble:         "#FF7043",
						AIBubble:           "#3d1f1a",
						Border:             "#FF704360",
					},
				},
			},
		},
	}
}

// DefaultThemes maps each persona to its default theme, used for new
// user preferences.
func DefaultThemes() map[string]string {
	return map[string]string{
		"developer": "neural-blue",
		"learner":   "aurora-teal",
		"hr":        "solar-amber",
	}
}

// DefaultMode is the persona preselected for new users.
const DefaultMode = "developer"

// DefaultSystemPrompt is used when a chat references a mode missing from
// the registry.
const DefaultSystemPrompt = developerPrompt
