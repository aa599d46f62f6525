package agent

import "google.golang.org/genai"

// Model used by all the experts.
const Model = "gemini-2.5-pro"

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and of solving the user's request.

			The experts available as Tools keep the context of your previous questions.
			The user comes to learn about the stocks held in the wallet, their value and their news.

			Devise a plan of questions to ask to each expert and come up with the best response.
			The user assumes that you know the held tickers: ask the Accountant first.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader, aware of the financial products, the companies and
		the latest news about them. Ask the Trader whenever you need recent or grounding information.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in trading. You search and find anything related to companies,
			markets and stocks, and use Google Search to ground your assertions.
			You relate the latest news to the user's request.
			`),
		},
	}
}

// NewAccountant returns an expert reading the wallet through tb.
func NewAccountant(tb *Toolbox) *Expert {
	lib := tb.Functions()
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. It reads the user's wallet: the cash balance, the transactions,
		the open positions and their live quotes.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(lib)},
			},
			SystemInstruction: instruction(`
			You are the accountant of the user's stock wallet.
			Use the Tools to read the wallet, the holdings, the transaction history and the live quotes.
			Other experts might ask you questions in approximate language, figure out what they meant.
			You cannot buy, sell or move cash: tell the user which stk command would do it.
			`),
		},
		Library: NewLibrary(lib),
	}
}
