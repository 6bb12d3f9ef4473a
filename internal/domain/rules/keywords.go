package rules

import "github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"

func kw(category string, weight int, terms ...string) []Keyword {
	out := make([]Keyword, 0, len(terms))
	for _, t := range terms {
		out = append(out, Keyword{Term: t, Category: category, Weight: weight})
	}
	return out
}

func group(parts ...[]Keyword) []Keyword {
	var out []Keyword
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func localeKeywords() map[language.Locale][]Keyword {
	return map[language.Locale][]Keyword{
		language.ES: group(
			kw("Drinks", 3, "AGUA MINERAL", "REFRESCO", "ZUMO", "COLA ZERO", "TONICA", "GASEOSA"),
			kw("Drinks", 2, "AGUA", "CAFE", "TE", "BEBIDA"),
			kw("Alcohol", 3, "CERVEZA", "VINO", "RIOJA", "RIBERA", "SIDRA", "CAVA", "GINEBRA", "RON", "WHISKY"),
			kw("Dairy & Eggs", 3, "LECHE", "YOGUR", "HUEVOS", "MANTEQUILLA", "NATA"),
			kw("Dairy & Eggs", 2, "QUESO"),
			kw("Bakery", 2, "PAN", "BARRA", "BAGUETTE", "CROISSANT", "MAGDALENAS"),
			kw("Meat & Fish", 3, "POLLO", "TERNERA", "CERDO", "JAMON", "SALMON", "MERLUZA", "ATUN", "GAMBAS"),
			kw("Fruits & Vegetables", 2, "TOMATE", "PLATANO", "MANZANA", "NARANJA", "LECHUGA", "PATATA", "CEBOLLA", "PIMIENTO", "FRESAS"),
			kw("Salty Snacks", 2, "PATATAS FRITAS", "NACHOS", "FRUTOS SECOS", "ACEITUNAS", "PIPAS"),
			kw("Sweets", 2, "CHOCOLATE", "GALLETAS", "HELADO", "CARAMELOS", "TURRON"),
			kw("Household", 2, "DETERGENTE", "LEJIA", "SUAVIZANTE", "PAPEL HIGIENICO", "ESTROPAJO", "BOLSA"),
			kw("Personal Care", 2, "CHAMPU", "GEL", "DESODORANTE", "PASTA DENTAL", "DENTIFRICO"),
		),
		language.CA: group(
			kw("Drinks", 3, "AIGUA MINERAL", "REFRESC", "SUC"),
			kw("Drinks", 2, "AIGUA", "CAFE"),
			kw("Alcohol", 3, "CERVESA", "VI", "CAVA"),
			kw("Dairy & Eggs", 3, "LLET", "IOGURT", "OUS", "MANTEGA"),
			kw("Dairy & Eggs", 2, "FORMATGE"),
			kw("Bakery", 2, "PA", "BARRA", "COCA"),
			kw("Meat & Fish", 3, "POLLASTRE", "VEDELLA", "PORC", "PERNIL", "LLUS", "TONYINA"),
			kw("Fruits & Vegetables", 2, "TOMAQUET", "PLATAN", "POMA", "TARONJA", "ENCIAM", "PATATA", "CEBA"),
			kw("Sweets", 2, "XOCOLATA", "GALETES", "GELAT"),
			kw("Household", 2, "DETERGENT", "LLEIXIU", "PAPER HIGIENIC"),
		),
		language.PT: group(
			kw("Drinks", 3, "AGUA MINERAL", "REFRIGERANTE", "SUMO", "ICE TEA"),
			kw("Drinks", 2, "AGUA", "CAFE", "CHA"),
			kw("Alcohol", 3, "CERVEJA", "VINHO", "SUPER BOCK", "SAGRES", "PORTO"),
			kw("Dairy & Eggs", 3, "LEITE", "IOGURTE", "OVOS", "MANTEIGA", "NATAS"),
			kw("Dairy & Eggs", 2, "QUEIJO"),
			kw("Bakery", 2, "PAO", "BROA", "CROISSANT", "BOLO"),
			kw("Meat & Fish", 3, "FRANGO", "VACA", "PORCO", "FIAMBRE", "BACALHAU", "SALMAO", "PESCADA", "ATUM"),
			kw("Fruits & Vegetables", 2, "TOMATE", "BANANA", "MACA", "LARANJA", "ALFACE", "BATATA", "CEBOLA"),
			kw("Salty Snacks", 2, "BATATAS FRITAS", "AMENDOINS", "AZEITONAS"),
			kw("Sweets", 2, "CHOCOLATE", "BOLACHAS", "GELADO"),
			kw("Household", 2, "DETERGENTE", "LIXIVIA", "AMACIADOR", "PAPEL HIGIENICO"),
			kw("Personal Care", 2, "CHAMPO", "GEL DE BANHO", "DESODORIZANTE", "PASTA DE DENTES"),
		),
		language.EN: group(
			kw("Drinks", 3, "SPARKLING WATER", "MINERAL WATER", "SOFT DRINK", "ORANGE JUICE", "LEMONADE", "ENERGY DRINK"),
			kw("Drinks", 2, "WATER", "JUICE", "COFFEE", "TEA", "SODA"),
			kw("Alcohol", 3, "BEER", "LAGER", "ALE", "CIDER", "WINE", "GIN", "VODKA", "WHISKY"),
			kw("Dairy & Eggs", 3, "MILK", "YOGHURT", "YOGURT", "EGGS", "BUTTER", "CREAM"),
			kw("Dairy & Eggs", 2, "CHEESE", "CHEDDAR"),
			kw("Bakery", 2, "BREAD", "LOAF", "BAGEL", "CROISSANT", "MUFFIN"),
			kw("Meat & Fish", 3, "CHICKEN", "BEEF", "PORK", "HAM", "BACON", "SALMON", "COD", "TUNA", "MINCE"),
			kw("Fruits & Vegetables", 2, "TOMATOES", "BANANAS", "APPLES", "ORANGES", "LETTUCE", "POTATOES", "ONIONS", "CARROTS"),
			kw("Salty Snacks", 2, "CRISPS", "CHIPS", "PRETZELS", "PEANUTS", "POPCORN"),
			kw("Sweets", 2, "CHOCOLATE", "BISCUITS", "COOKIES", "ICE CREAM", "SWEETS", "CANDY"),
			kw("Household", 2, "DETERGENT", "BLEACH", "TOILET ROLL", "KITCHEN ROLL", "WASHING UP", "BIN BAGS"),
			kw("Personal Care", 2, "SHAMPOO", "SHOWER GEL", "DEODORANT", "TOOTHPASTE", "RAZOR"),
		),
		language.FR: group(
			kw("Drinks", 3, "EAU MINERALE", "EAU GAZEUSE", "JUS", "SODA", "LIMONADE"),
			kw("Drinks", 2, "EAU", "CAFE", "THE"),
			kw("Alcohol", 3, "BIERE", "VIN", "BORDEAUX", "CHAMPAGNE", "CIDRE", "PASTIS"),
			kw("Dairy & Eggs", 3, "LAIT", "YAOURT", "OEUFS", "BEURRE", "CREME FRAICHE"),
			kw("Dairy & Eggs", 2, "FROMAGE", "EMMENTAL", "CAMEMBERT"),
			kw("Bakery", 2, "PAIN", "BAGUETTE", "CROISSANT", "BRIOCHE"),
			kw("Meat & Fish", 3, "POULET", "BOEUF", "PORC", "JAMBON", "SAUMON", "CABILLAUD", "THON"),
			kw("Fruits & Vegetables", 2, "TOMATES", "BANANES", "POMMES", "ORANGES", "SALADE", "CAROTTES", "OIGNONS"),
			kw("Salty Snacks", 2, "CHIPS", "CACAHUETES", "BRETZELS"),
			kw("Sweets", 2, "CHOCOLAT", "BISCUITS", "GLACE", "BONBONS"),
			kw("Household", 2, "LESSIVE", "JAVEL", "PAPIER TOILETTE", "EPONGE"),
			kw("Personal Care", 2, "SHAMPOOING", "GEL DOUCHE", "DENTIFRICE", "DEODORANT"),
		),
		language.IT: group(
			kw("Drinks", 3, "ACQUA MINERALE", "ACQUA FRIZZANTE", "SUCCO", "ARANCIATA", "BIBITA"),
			kw("Drinks", 2, "ACQUA", "CAFFE", "TE"),
			kw("Alcohol", 3, "BIRRA", "VINO", "CHIANTI", "PROSECCO", "GRAPPA"),
			kw("Dairy & Eggs", 3, "LATTE", "YOGURT", "UOVA", "BURRO", "PANNA"),
			kw("Dairy & Eggs", 2, "FORMAGGIO", "MOZZARELLA", "PARMIGIANO"),
			kw("Bakery", 2, "PANE", "FOCACCIA", "CORNETTO", "GRISSINI"),
			kw("Meat & Fish", 3, "POLLO", "MANZO", "MAIALE", "PROSCIUTTO", "SALMONE", "TONNO"),
			kw("Fruits & Vegetables", 2, "POMODORI", "BANANE", "MELE", "ARANCE", "INSALATA", "PATATE", "CIPOLLE"),
			kw("Salty Snacks", 2, "PATATINE", "ARACHIDI", "TARALLI"),
			kw("Sweets", 2, "CIOCCOLATO", "BISCOTTI", "GELATO"),
			kw("Household", 2, "DETERSIVO", "CANDEGGINA", "CARTA IGIENICA"),
		),
		language.DE: group(
			kw("Drinks", 3, "MINERALWASSER", "SPRUDEL", "SAFT", "LIMONADE", "APFELSCHORLE"),
			kw("Drinks", 2, "WASSER", "KAFFEE", "TEE"),
			kw("Alcohol", 3, "BIER", "PILS", "WEIZEN", "WEIN", "SEKT", "KORN"),
			kw("Dairy & Eggs", 3, "MILCH", "VOLLMILCH", "JOGHURT", "EIER", "BUTTER", "SAHNE", "QUARK"),
			kw("Dairy & Eggs", 2, "KAESE", "KÄSE", "GOUDA"),
			kw("Bakery", 2, "BROT", "BROETCHEN", "BRÖTCHEN", "BREZEL", "TOAST"),
			kw("Meat & Fish", 3, "HAEHNCHEN", "HÄHNCHEN", "RIND", "SCHWEIN", "SCHINKEN", "WURST", "LACHS", "THUNFISCH"),
			kw("Fruits & Vegetables", 2, "TOMATEN", "BANANEN", "AEPFEL", "ÄPFEL", "ORANGEN", "SALAT", "KARTOFFELN", "ZWIEBELN"),
			kw("Salty Snacks", 2, "CHIPS", "ERDNUESSE", "ERDNÜSSE", "SALZSTANGEN"),
			kw("Sweets", 2, "SCHOKOLADE", "KEKSE", "EIS", "GUMMIBAERCHEN"),
			kw("Household", 2, "WASCHMITTEL", "SPUELMITTEL", "SPÜLMITTEL", "TOILETTENPAPIER"),
			kw("Personal Care", 2, "SHAMPOO", "DUSCHGEL", "ZAHNPASTA", "DEO"),
		),
		language.NL: group(
			kw("Drinks", 3, "MINERAALWATER", "SPA ROOD", "FRISDRANK", "SAP", "SINAASAPPELSAP"),
			kw("Drinks", 2, "WATER", "KOFFIE", "THEE"),
			kw("Alcohol", 3, "BIER", "PILS", "WIJN", "JENEVER"),
			kw("Dairy & Eggs", 3, "MELK", "YOGHURT", "EIEREN", "BOTER", "VLA"),
			kw("Dairy & Eggs", 2, "KAAS"),
			kw("Bakery", 2, "BROOD", "BOLLEN", "CROISSANT", "BESCHUIT"),
			kw("Meat & Fish", 3, "KIP", "RUNDVLEES", "GEHAKT", "HAM", "ZALM", "TONIJN"),
			kw("Fruits & Vegetables", 2, "TOMATEN", "BANANEN", "APPELS", "SINAASAPPELS", "SLA", "AARDAPPELEN", "UIEN"),
			kw("Salty Snacks", 2, "CHIPS", "PINDAS", "NOOTJES"),
			kw("Sweets", 2, "CHOCOLADE", "KOEKJES", "DROP", "STROOPWAFELS"),
			kw("Household", 2, "WASMIDDEL", "AFWASMIDDEL", "WC PAPIER", "TOILETPAPIER"),
			kw("Personal Care", 2, "SHAMPOO", "DOUCHEGEL", "TANDPASTA", "DEODORANT"),
		),
	}
}

// commonKeywords are brand names recognized regardless of locale.
func commonKeywords() []Keyword {
	return group(
		kw("Drinks", 3, "COCA COLA", "PEPSI", "FANTA", "SPRITE", "RED BULL", "MONSTER", "NESTEA", "AQUARIUS", "SCHWEPPES", "SAN PELLEGRINO", "EVIAN", "VITTEL"),
		kw("Alcohol", 3, "HEINEKEN", "ESTRELLA", "MAHOU", "CORONA", "GUINNESS", "AMSTEL", "BUDWEISER", "MOET"),
		kw("Salty Snacks", 3, "PRINGLES", "DORITOS", "LAYS", "CHEETOS", "RUFFLES"),
		kw("Sweets", 3, "NUTELLA", "KITKAT", "OREO", "HARIBO", "MILKA", "TOBLERONE", "M M S"),
		kw("Personal Care", 3, "COLGATE", "NIVEA", "GILLETTE", "DOVE"),
		kw("Household", 3, "FAIRY", "ARIEL", "SKIP", "DIXAN", "SCOTTEX"),
	)
}
