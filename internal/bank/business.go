package bank

import "quizmaster/internal/domain"

// businessBank is the built-in track-1 question set: 20 MCQs, 20 minutes.
var businessBank = domain.QuestionBank{
	ID: TrackBusiness.BankID(),
	Questions: []domain.Question{
		{
			ID:     1,
			Prompt: "Which KPI best measures customer loyalty?",
			Options: []string{
				"Conversion Rate",
				"Net Promoter Score (NPS)",
				"Customer Acquisition Cost",
				"Click Through Rate",
			},
			CorrectAnswer: "Net Promoter Score (NPS)",
		},
		{
			ID:     2,
			Prompt: "If a company's expenses increase but revenue stays the same, what happens to profit?",
			Options: []string{
				"Increases",
				"Decreases",
				"Remains unchanged",
				"Doubles",
			},
			CorrectAnswer: "Decreases",
		},
		{
			ID:     3,
			Prompt: "Which chart is MOST suitable to show sales trend over 12 months?",
			Options: []string{
				"Pie chart",
				"Bar chart",
				"Line chart",
				"Histogram",
			},
			CorrectAnswer: "Line chart",
		},
		{
			ID:     4,
			Prompt: "What does CAC stand for in marketing analytics?",
			Options: []string{
				"Cost After Conversion",
				"Customer Acquisition Cost",
				"Customer Average Consumption",
				"Cost of Annual Campaign",
			},
			CorrectAnswer: "Customer Acquisition Cost",
		},
		{
			ID:     5,
			Prompt: `Which type of analytics answers the question "What is likely to happen next?"`,
			Options: []string{
				"Descriptive",
				"Diagnostic",
				"Predictive",
				"Prescriptive",
			},
			CorrectAnswer: "Predictive",
		},
		{
			ID:     6,
			Prompt: "Which factor directly improves a company's profit margin?",
			Options: []string{
				"Increasing costs",
				"Reducing revenue",
				"Reducing operating expenses",
				"Increasing debt",
			},
			CorrectAnswer: "Reducing operating expenses",
		},
		{
			ID:     7,
			Prompt: "In A/B testing, what is compared?",
			Options: []string{
				"Two datasets",
				"Two business strategies or versions",
				"Two markets",
				"Two time periods",
			},
			CorrectAnswer: "Two business strategies or versions",
		},
		{
			ID:     8,
			Prompt: "What does break-even analysis identify?",
			Options: []string{
				"Maximum profit level",
				"Minimum sales needed to avoid loss",
				"Market demand",
				"Competitor pricing",
			},
			CorrectAnswer: "Minimum sales needed to avoid loss",
		},
		{
			ID:     9,
			Prompt: "Which metric is MOST important for subscription-based businesses?",
			Options: []string{
				"Footfall",
				"Market Share",
				"Churn Rate",
				"Inventory Turnover",
			},
			CorrectAnswer: "Churn Rate",
		},
		{
			ID:     10,
			Prompt: "If demand is highly elastic, a small price increase will:",
			Options: []string{
				"Increase revenue",
				"Decrease quantity demanded significantly",
				"Have no effect",
				"Increase profit always",
			},
			CorrectAnswer: "Decrease quantity demanded significantly",
		},
		{
			ID:     11,
			Prompt: "Which tool is commonly used to build business dashboards?",
			Options: []string{
				"MS Word",
				"Power BI / Tableau",
				"Photoshop",
				"AutoCAD",
			},
			CorrectAnswer: "Power BI / Tableau",
		},
		{
			ID:     12,
			Prompt: "What does ROI help managers decide?",
			Options: []string{
				"Employee productivity",
				"Whether an investment is worth it",
				"Market size",
				"Customer satisfaction",
			},
			CorrectAnswer: "Whether an investment is worth it",
		},
		{
			ID:     13,
			Prompt: "Which analysis helps identify high-value customers?",
			Options: []string{
				"Market basket analysis",
				"Customer Lifetime Value (CLV)",
				"PESTLE analysis",
				"SWOT analysis",
			},
			CorrectAnswer: "Customer Lifetime Value (CLV)",
		},
		{
			ID:     14,
			Prompt: "What does inventory turnover measure?",
			Options: []string{
				"Total inventory value",
				"How quickly inventory is sold",
				"Warehouse size",
				"Supplier efficiency",
			},
			CorrectAnswer: "How quickly inventory is sold",
		},
		{
			ID:     15,
			Prompt: "Which Indian company is known globally for IT consulting?",
			Options: []string{
				"Tata Motors",
				"Infosys",
				"Reliance Retail",
				"Flipkart",
			},
			CorrectAnswer: "Infosys",
		},
		{
			ID:     16,
			Prompt: "Which metric best evaluates marketing campaign performance?",
			Options: []string{
				"CTR (Click Through Rate)",
				"Gross Profit",
				"Net Worth",
				"Working Capital",
			},
			CorrectAnswer: "CTR (Click Through Rate)",
		},
		{
			ID:     17,
			Prompt: "What is the primary purpose of data visualization?",
			Options: []string{
				"Store data",
				"Simplify complex data for understanding",
				"Increase data size",
				"Replace analysis",
			},
			CorrectAnswer: "Simplify complex data for understanding",
		},
		{
			ID:     18,
			Prompt: "What does market share indicate?",
			Options: []string{
				"Company's profit",
				"Company's sales relative to total market",
				"Customer satisfaction",
				"Brand reputation",
			},
			CorrectAnswer: "Company's sales relative to total market",
		},
		{
			ID:     19,
			Prompt: "Which sector includes IT services, banking, and insurance?",
			Options: []string{
				"Primary",
				"Secondary",
				"Tertiary",
				"Quaternary",
			},
			CorrectAnswer: "Tertiary",
		},
		{
			ID:     20,
			Prompt: "Which analytics type recommends actions to take?",
			Options: []string{
				"Descriptive",
				"Diagnostic",
				"Predictive",
				"Prescriptive",
			},
			CorrectAnswer: "Prescriptive",
		},
	},
}
