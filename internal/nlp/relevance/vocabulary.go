package relevance

// financialTerms is the static screening vocabulary. Terms are stored
// lowercase and matched as substrings against lowercased input, so "ROI" in a
// blob matches the "roi" term. The list covers general finance, macro, and
// crypto jargon.
var financialTerms = []string{
	"buy", "sell", "long", "short", "bull", "bear", "bullish", "bearish",
	"price", "prices", "cost", "costs", "high", "low", "peak", "bottom",
	"value", "values", "rate", "rates", "valuation", "valuations",
	"usd", "$", "dollar", "dollars", "euro", "yen", "currency", "currencies",
	"invest", "investment", "investor", "investors", "divest", "portfolio",
	"market", "markets", "stock", "stocks", "share", "shares",
	"economy", "economic", "economist", "gdp", "inflation", "deflation",
	"trade", "trading", "trader", "traders", "trading volume",
	"financial", "finance", "financials", "capital", "gain", "loss",
	"profit", "margin", "revenue", "bear market", "bull market",
	"ipo", "initial public offering", "equity", "debt",
	"futures", "options", "derivatives", "commodities", "bonds", "treasury",
	"hedge", "hedge fund", "leverage", "liquid", "liquidity",
	"volatility", "volatile", "index", "indices", "benchmark",
	"speculate", "speculation", "risk", "assessment", "analysis", "analyst",
	"dividend", "yield", "return", "roi", "return on investment",
	"credit", "loan", "interest", "rate cut", "hike", "policy",
	"regulation", "regulatory", "compliance", "audit",
	"merge", "merger", "acquisition", "takeover",
	"fiscal", "monetary", "quantitative easing", "stimulus",
	"recession", "depression", "recovery", "boom", "bust",
	"bubble", "correction", "rally", "crash", "slump", "growth",
	"capital gains", "capital loss", "asset", "liability",
	"equities", "fixed income", "exchange", "broker", "brokerage",
	"arbitrage", "spread", "bid", "ask", "quote", "position",
	"sector", "industry", "diversify", "diversification",
	"blue chip", "penny stocks", "due diligence",
	"fintech", "cryptocurrency", "crypto", "blockchain", "bitcoin", "ethereum",
	"litecoin", "ripple", "wallet", "token", "coin", "mining", "hashrate",
	"ico", "initial coin offering", "decentralized", "smart contract",
	"exchange-traded fund", "etf", "mutual fund",
	"technical analysis", "fundamental analysis", "chart", "trend",
	"moving average", "support", "resistance", "indicator",
	"oscillator", "volume", "momentum", "rsi", "macd",
}

// financialEntityLabels is the fixed set of named-entity categories that mark
// a text as financially relevant. Labels follow the spaCy naming scheme.
var financialEntityLabels = map[string]bool{
	"MONEY":       true,
	"ORG":         true,
	"GPE":         true,
	"CARDINAL":    true,
	"PERCENT":     true,
	"PRODUCT":     true,
	"EVENT":       true,
	"WORK_OF_ART": true,
	"LAW":         true,
	"DATE":        true,
	"TIME":        true,
	"QUANTITY":    true,
	"ORDINAL":     true,
}
