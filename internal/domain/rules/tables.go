package rules

import "github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"

func localeRules() map[language.Locale][]Rule {
	return map[language.Locale][]Rule{
		language.ES: {
			transfer(`BIZUM\s+(A|DE)\s+`, "Bizum"),
			transfer(`TRANSFERENCIA\s+(A FAVOR DE|DE|A)\s+`, "Transferencia"),
			rule(`MERCADONA`, "Mercadona", "Groceries"),
			rule(`CARREFOUR\s*EXPRESS|CARREFOUR`, "Carrefour", "Groceries"),
			rule(`\bDIA\b|SUPERMERCADOS\s+DIA`, "Dia", "Groceries"),
			rule(`EROSKI`, "Eroski", "Groceries"),
			rule(`ALCAMPO`, "Alcampo", "Groceries"),
			rule(`EL\s*CORTE\s*INGL(E|É)S`, "El Corte Inglés", "Shopping"),
			rule(`IBERDROLA`, "Iberdrola", "Utilities"),
			rule(`ENDESA`, "Endesa", "Utilities"),
			rule(`MOVISTAR`, "Movistar", "Utilities"),
			rule(`RENFE`, "Renfe", "Transport"),
			rule(`REPSOL|CEPSA`, "Gasolinera", "Transport"),
			rule(`FARMACIA`, "Farmacia", "Health"),
		},
		language.CA: {
			transfer(`TRANSFER(E|È)NCIA\s+(A FAVOR DE|DE|A)\s+`, "Transferència"),
			rule(`BONPREU|BONPR(E|É)U`, "Bonpreu", "Groceries"),
			rule(`CONDIS`, "Condis", "Groceries"),
			rule(`CAPRABO`, "Caprabo", "Groceries"),
			rule(`MERCADONA`, "Mercadona", "Groceries"),
			rule(`\bFGC\b|FERROCARRILS`, "FGC", "Transport"),
			rule(`\bTMB\b`, "TMB", "Transport"),
			rule(`FARM(A|À)CIA`, "Farmàcia", "Health"),
		},
		language.PT: {
			transfer(`MB\s*WAY\s+(PARA|DE)\s+`, "MB Way"),
			transfer(`TRF\.?\s+(P/|PARA|DE)\s*`, "Transferência"),
			rule(`PINGO\s*DOCE|PGO\s*DOCE`, "Pingo Doce", "Groceries"),
			rule(`CONTINENTE\s*SA(U|Ú)DE|FARM(A|Á)CIA`, "Farmácia", "Health"),
			rule(`CONTINENTE`, "Continente", "Groceries"),
			rule(`MINIPRE(C|Ç)O|MINI\s*PRE(C|Ç)O`, "Minipreço", "Groceries"),
			rule(`INTERMARCH(E|É)`, "Intermarché", "Groceries"),
			rule(`\bEDP\b`, "EDP", "Utilities"),
			rule(`\bEPAL\b`, "EPAL", "Utilities"),
			rule(`\bMEO\b|ALTICE`, "MEO", "Utilities"),
			rule(`VIVA\s*VIAGEM`, "Viva Viagem", "Transport"),
			rule(`COMBOIOS\s*PORTUGAL|\bCP\s*-\s*COMBOIOS`, "CP", "Transport"),
			rule(`WORTEN`, "Worten", "Shopping"),
		},
		language.EN: {
			transfer(`(FASTER\s+PAYMENT|BANK\s+TRANSFER|TRANSFER)\s+(TO|FROM)\s+`, "Transfer"),
			rule(`TESCO`, "Tesco", "Groceries"),
			rule(`SAINSBURY'?S?`, "Sainsbury's", "Groceries"),
			rule(`ASDA`, "Asda", "Groceries"),
			rule(`MORRISONS`, "Morrisons", "Groceries"),
			rule(`WAITROSE`, "Waitrose", "Groceries"),
			rule(`\bBOOTS\b`, "Boots", "Health"),
			rule(`\bTFL\b|TRANSPORT\s+FOR\s+LONDON`, "TfL", "Transport"),
			rule(`BRITISH\s+GAS`, "British Gas", "Utilities"),
		},
		language.FR: {
			transfer(`VIR(EMENT)?\s+(SEPA\s+)?(DE|A|À)\s+`, "Virement"),
			rule(`CARREFOUR`, "Carrefour", "Groceries"),
			rule(`LECLERC`, "E.Leclerc", "Groceries"),
			rule(`INTERMARCH(E|É)`, "Intermarché", "Groceries"),
			rule(`MONOPRIX`, "Monoprix", "Groceries"),
			rule(`AUCHAN`, "Auchan", "Groceries"),
			rule(`\bSNCF\b`, "SNCF", "Transport"),
			rule(`\bRATP\b`, "RATP", "Transport"),
			rule(`\bEDF\b`, "EDF", "Utilities"),
			rule(`PHARMACIE`, "Pharmacie", "Health"),
		},
		language.IT: {
			transfer(`BONIFICO\s+(A FAVORE DI|DA|A)\s+`, "Bonifico"),
			rule(`ESSELUNGA`, "Esselunga", "Groceries"),
			rule(`\bCOOP\b`, "Coop", "Groceries"),
			rule(`CONAD`, "Conad", "Groceries"),
			rule(`\bPAM\b|PANORAMA`, "Pam", "Groceries"),
			rule(`TRENITALIA`, "Trenitalia", "Transport"),
			rule(`\bENEL\b`, "Enel", "Utilities"),
			rule(`FARMACIA`, "Farmacia", "Health"),
		},
		language.DE: {
			transfer(`(UEBERWEISUNG|ÜBERWEISUNG)\s+(AN|VON)\s+`, "Überweisung"),
			rule(`\bREWE\b`, "REWE", "Groceries"),
			rule(`EDEKA`, "Edeka", "Groceries"),
			rule(`KAUFLAND`, "Kaufland", "Groceries"),
			rule(`NETTO`, "Netto", "Groceries"),
			rule(`PENNY`, "Penny", "Groceries"),
			rule(`\bDM\b|DM-DROGERIE`, "dm", "Personal Care"),
			rule(`ROSSMANN`, "Rossmann", "Personal Care"),
			rule(`DEUTSCHE\s+BAHN|\bDB\s+VERTRIEB`, "Deutsche Bahn", "Transport"),
			rule(`APOTHEKE`, "Apotheke", "Health"),
		},
		language.NL: {
			transfer(`OVERBOEKING\s+(NAAR|VAN)\s+`, "Overboeking"),
			rule(`ALBERT\s*HEIJN|\bAH\s+TO\s+GO|\bAH\b`, "Albert Heijn", "Groceries"),
			rule(`JUMBO`, "Jumbo", "Groceries"),
			rule(`\bPLUS\b`, "PLUS", "Groceries"),
			rule(`HEMA`, "HEMA", "Shopping"),
			rule(`KRUIDVAT`, "Kruidvat", "Personal Care"),
			rule(`\bNS\b|NS\s+GROEP`, "NS", "Transport"),
			rule(`ETOS`, "Etos", "Personal Care"),
		},
	}
}

// commonRules are international brands recognized in every locale.
func commonRules() []Rule {
	return []Rule{
		rule(`\bLIDL\b`, "Lidl", "Groceries"),
		rule(`\bALDI\b`, "Aldi", "Groceries"),
		rule(`SPAR\b`, "Spar", "Groceries"),
		rule(`STARBUCKS`, "Starbucks", "Restaurants"),
		rule(`MC\s*DONALD'?S?|MCDONALD`, "McDonald's", "Restaurants"),
		rule(`BURGER\s*KING`, "Burger King", "Restaurants"),
		rule(`\bKFC\b`, "KFC", "Restaurants"),
		rule(`UBER\s*EATS`, "Uber Eats", "Restaurants"),
		rule(`GLOVO`, "Glovo", "Restaurants"),
		rule(`BOLT\s*FOOD`, "Bolt Food", "Restaurants"),
		rule(`\bUBER\b`, "Uber", "Transport"),
		rule(`\bBOLT\b`, "Bolt", "Transport"),
		rule(`RYANAIR`, "Ryanair", "Transport"),
		rule(`EASYJET`, "easyJet", "Transport"),
		rule(`SHELL\b`, "Shell", "Transport"),
		rule(`AMAZON|AMZN`, "Amazon", "Shopping"),
		rule(`\bZARA\b`, "Zara", "Shopping"),
		rule(`H\s*&\s*M\b`, "H&M", "Shopping"),
		rule(`PRIMARK`, "Primark", "Shopping"),
		rule(`IKEA`, "IKEA", "Household"),
		rule(`DECATHLON`, "Decathlon", "Shopping"),
		rule(`NETFLIX`, "Netflix", "Entertainment"),
		rule(`SPOTIFY`, "Spotify", "Entertainment"),
		rule(`DISNEY\s*\+|DISNEYPLUS`, "Disney+", "Entertainment"),
		rule(`APPLE\.COM|APPLE\s*MUSIC`, "Apple", "Entertainment"),
		rule(`STEAM(POWERED)?\b`, "Steam", "Entertainment"),
		rule(`PAYPAL`, "PayPal", "Transfers"),
		rule(`REVOLUT`, "Revolut", "Transfers"),
	}
}
