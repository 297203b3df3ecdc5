package types

import "time"

// templateRows is the static guidance scaffold for a fresh plan. Only
// teacherAction carries placeholder text; keyIdeas and guidedPractice
// additionally suggest a default language strategy.
var templateRows = map[RowKey]LessonRow{
	RowPreview: {
		ID:            RowPreview,
		Title:         "PREVIEW",
		Icon:          IconAnchor,
		Description:   "Access prior knowledge and/or provide relevance",
		TeacherAction: FrameworkCell{Content: "Ask a question that connects non-academic experience to the concept."},
	},
	RowObjective: {
		ID:            RowObjective,
		Title:         "LEARNING OBJECTIVE",
		Icon:          IconTarget,
		Description:   "Deconstructed standard",
		TeacherAction: FrameworkCell{Content: "State the objective clearly. Must match Independent Practice."},
	},
	RowReview: {
		ID:            RowReview,
		Title:         "REVIEW",
		Icon:          IconZap,
		Description:   "Sub-skills necessary for this lesson",
		TeacherAction: FrameworkCell{Content: "Identify constituent skills needed for this specific lesson."},
	},
	RowKeyIdeas: {
		ID:               RowKeyIdeas,
		Title:            "KEY IDEAS",
		Icon:             IconLightbulb,
		Description:      "Concept Map, Definitions, Rules, Conditions",
		TeacherAction:    FrameworkCell{Content: "Define \"What\" it is and \"When\" to use it. Use a Concept Map."},
		LanguageStrategy: FrameworkCell{Content: "Include Language Frames."},
	},
	RowExpertThinking: {
		ID:            RowExpertThinking,
		Title:         "EXPERT THINKING",
		Icon:          IconMonitor,
		Description:   "Steps / Concept Map",
		TeacherAction: FrameworkCell{Content: "Model the thinking process. \"I do\"."},
	},
	RowGuidedPractice: {
		ID:               RowGuidedPractice,
		Title:            "GUIDED PRACTICE",
		Icon:             IconPlayCircle,
		Description:      "Teacher gradually releases control to student",
		TeacherAction:    FrameworkCell{Content: "Do step 1, stop, check. Do step 2, stop, check."},
		LanguageStrategy: FrameworkCell{Content: "Collaborative Strategies."},
	},
	RowClosure: {
		ID:            RowClosure,
		Title:         "CLOSURE",
		Icon:          IconGift,
		Description:   "Verbal reiteration of Key Ideas",
		TeacherAction: FrameworkCell{Content: "Students verbally reiterate the Key Ideas to a partner or class. Verify they can \"Speak the Concept\"."},
	},
	RowIndependentPractice: {
		ID:            RowIndependentPractice,
		Title:         "INDEPENDENT PRACTICE",
		Icon:          IconCrosshair,
		Description:   "Matches learning objective",
		TeacherAction: FrameworkCell{Content: "Students work independently. Matches objective exactly."},
	},
}

// TemplatePlan returns a fresh plan seeded with the static guidance
// scaffold and an empty context. Each call returns an independent copy.
func TemplatePlan() LessonPlan {
	rows := make(map[RowKey]LessonRow, len(templateRows))
	for k, v := range templateRows {
		rows[k] = v
	}
	return LessonPlan{
		Meta: LessonContext{LessonType: LessonUnset},
		Rows: rows,
	}
}

// TemplateRow returns the static template row for the given key.
func TemplateRow(key RowKey) LessonRow {
	return templateRows[key]
}

// demoLesson builds one demo library entry on top of the template.
func demoLesson(id, name string, age time.Duration, meta LessonContext, overrides map[RowKey]RowCells) SavedLesson {
	plan := TemplatePlan()
	plan.Meta = meta
	for key, cells := range overrides {
		row := plan.Rows[key]
		row.TeacherAction = FrameworkCell{Content: cells.TeacherAction}
		row.LanguageStrategy = FrameworkCell{Content: cells.LanguageStrategy}
		row.CheckForUnderstanding = FrameworkCell{Content: cells.CheckForUnderstanding}
		plan.Rows[key] = row
	}
	return SavedLesson{
		ID:        id,
		Name:      name,
		Timestamp: time.Now().Add(-age).UnixMilli(),
		Plan:      plan,
	}
}

// DemoLessons returns the three built-in example plans shown to
// first-time users. Each call returns independent copies.
func DemoLessons() []SavedLesson {
	return []SavedLesson{
		demoLesson("demo-1", "Math: Division with Remainders", 24*time.Hour,
			LessonContext{
				Grade:        "5th Grade",
				Subject:      "Mathematics",
				Standard:     "CCSS.MATH.CONTENT.5.NBT.B.6",
				Topic:        "Long Division with Remainders",
				LessonType:   LessonProcedural,
				ObjectiveRaw: "Students will divide 3-digit dividends by 1-digit divisors with remainders.",
				PreviewIdea:  "Sharing 50 cookies among 6 friends equally.",
			},
			map[RowKey]RowCells{
				RowPreview: {
					TeacherAction:         "Imagine you have 50 cookies and 6 friends. If you want everyone to have the exact same amount, how many does each person get? Is there anything left over?",
					LanguageStrategy:      "Numbered Heads Together",
					CheckForUnderstanding: "Thumbs up if you think there will be a \"leftover\" cookie.",
				},
				RowKeyIdeas: {
					TeacherAction:         "A Remainder is the \"leftover\" amount when a number cannot be divided into equal whole parts. \nSteps: 1. Divide, 2. Multiply, 3. Subtract, 4. Bring Down, 5. Remainder Check.",
					LanguageStrategy:      "Sentence Frame: \"The quotient is __ with a remainder of __.\"",
					CheckForUnderstanding: "Whiteboard check: Define \"Dividend\" in your own words.",
				},
				RowExpertThinking: {
					TeacherAction:         "Teacher models 145 ÷ 4. \"I look at the 1, 4 doesn't go into 1. I look at 14. 4 goes into 14 three times. 3 times 4 is 12. 14 minus 12 is 2. I bring down the 5...\"",
					LanguageStrategy:      "Think-Aloud Protocol",
					CheckForUnderstanding: "Stop after the first subtraction: \"Why did I write a 2 here?\"",
				},
				RowClosure: {
					TeacherAction:         "Turn & Talk: Explain to your partner what a remainder is and name the 5 steps of the division algorithm. Teacher circulates to listen for accuracy.",
					LanguageStrategy:      "Partner Share: \"First I ___, then I ___.\"",
					CheckForUnderstanding: "Teacher selects 3 students to say the steps aloud.",
				},
			}),
		demoLesson("demo-2", "ELA: Character Perspective", 48*time.Hour,
			LessonContext{
				Grade:        "4th Grade",
				Subject:      "English Language Arts (ELA)",
				Standard:     "CCSS.ELA-LITERACY.RL.4.6",
				Topic:        "Point of View and Perspective",
				LessonType:   LessonDeclarative,
				ObjectiveRaw: "Students will compare the points of view of two characters in the same story.",
				PreviewIdea:  "How a student feels about a surprise test vs. how a teacher feels about it.",
			},
			map[RowKey]RowCells{
				RowPreview: {
					TeacherAction:         "Suppose I announce a surprise test right now. How do you feel? (Scared/Angry). How do I feel? (Excited to see what you know). Why are our feelings different for the same event?",
					LanguageStrategy:      "Think-Pair-Share",
					CheckForUnderstanding: "Fist-to-Five: How well do you understand why people see things differently?",
				},
				RowKeyIdeas: {
					TeacherAction:         "Perspective is the \"lens\" through which a character sees the world, shaped by their experiences and roles. Point of View is the narrator's position (1st or 3rd person).",
					LanguageStrategy:      "Frame: \"Character A sees the event as ___ because ___, while Character B sees it as ___.\"",
					CheckForUnderstanding: "Quick Write: List two things that shape a person's perspective.",
				},
				RowClosure: {
					TeacherAction:         "Students stand up and find a partner from across the room. They must verbally explain the difference between Point of View and Perspective using the sentence frames provided.",
					LanguageStrategy:      "Stand Up, Hand Up, Pair Up",
					CheckForUnderstanding: "Listening for the use of \"lens\" and \"narrator\" in student explanations.",
				},
			}),
		demoLesson("demo-3", "Science: The Water Cycle", 72*time.Hour,
			LessonContext{
				Grade:        "3rd Grade",
				Subject:      "Science (NGSS)",
				Standard:     "NGSS 3-ESS2-1",
				Topic:        "Stages of the Water Cycle",
				LessonType:   LessonDeclarative,
				ObjectiveRaw: "Students will identify and describe the four main stages of the water cycle.",
				PreviewIdea:  "Observing a puddle disappear after a rainstorm.",
			},
			map[RowKey]RowCells{
				RowPreview: {
					TeacherAction:         "Think about a big puddle on the sidewalk after it rains. After the sun comes out, the puddle is gone. Where did that water go? Did it just vanish into nothing?",
					LanguageStrategy:      "Choral Response",
					CheckForUnderstanding: "Point to the sky if you think the water is up there.",
				},
				RowKeyIdeas: {
					TeacherAction:         "The Water Cycle is the continuous movement of water on, above, and below the Earth. \n1. Evaporation (Liquid to Gas), 2. Condensation (Gas to Liquid), 3. Precipitation (Falling), 4. Collection.",
					LanguageStrategy:      "Total Physical Response (TPR) gestures for each stage.",
					CheckForUnderstanding: "Match the term to the definition on the board.",
				},
				RowClosure: {
					TeacherAction:         "Without looking at the board, students must name the 4 stages of the water cycle in order to their partner, performing the hand gesture for each.",
					LanguageStrategy:      "Partner Recall",
					CheckForUnderstanding: "Teacher calls out \"Evaporation!\" and class responds with the definition chorally.",
				},
			}),
	}
}
