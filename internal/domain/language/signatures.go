package language

import "regexp"

func sig(pattern string, weight int) Signature {
	return Signature{Pattern: regexp.MustCompile(pattern), Weight: weight}
}

// defaultSignatures holds grocery vocabulary per locale. Words shared between
// languages (AGUA, POLLO, BIER, WATER) carry weight 1; distinctive words carry 2.
func defaultSignatures() map[Locale][]Signature {
	return map[Locale][]Signature{
		ES: {
			sig(`\bLECHE\b`, 2),
			sig(`\bHUEVOS\b`, 2),
			sig(`\bCERVEZA\b`, 2),
			sig(`\bJAM(O|Ó)N`, 2),
			sig(`\bQUESO\b`, 2),
			sig(`\bACEITE\b`, 2),
			sig(`\bAZ(U|Ú)CAR`, 2),
			sig(`\bPL(A|Á)TANO`, 2),
			sig(`\bMANZANA`, 2),
			sig(`\bPOLLO\b`, 1),
			sig(`\bAGUA\b`, 1),
			sig(`\bPAN\b`, 1),
			sig(`\bYOGUR\b`, 2),
			sig(`\bTOMATE\b`, 1),
		},
		EN: {
			sig(`\bMILK\b`, 2),
			sig(`\bBREAD\b`, 2),
			sig(`\bEGGS\b`, 2),
			sig(`\bCHICKEN\b`, 2),
			sig(`\bCHEESE\b`, 2),
			sig(`\bBEER\b`, 2),
			sig(`\bAPPLES?\b`, 2),
			sig(`\bBANANAS?\b`, 2),
			sig(`\bSUGAR\b`, 2),
			sig(`\bJUICE\b`, 2),
			sig(`\bWATER\b`, 1),
			sig(`\bBUTTER\b`, 1),
		},
		FR: {
			sig(`\bLAIT\b`, 2),
			sig(`\bPAIN\b`, 2),
			sig(`(\bOEUFS|ŒUFS)`, 2),
			sig(`\bPOULET\b`, 2),
			sig(`\bFROMAGE\b`, 2),
			sig(`\bBI(E|È)RE\b`, 2),
			sig(`\bBEURRE\b`, 2),
			sig(`\bJAMBON\b`, 2),
			sig(`\bYAOURT\b`, 2),
			sig(`\bPOMMES?\b`, 2),
			sig(`\bEAU\b`, 1),
			sig(`\bSUCRE\b`, 1),
		},
		PT: {
			sig(`\bLEITE\b`, 2),
			sig(`\bP(A|Ã)O\b`, 1),
			sig(`\bOVOS\b`, 2),
			sig(`\bFRANGO\b`, 2),
			sig(`\bQUEIJO\b`, 2),
			sig(`\bCERVEJA\b`, 2),
			sig(`\bMANTEIGA\b`, 2),
			sig(`\bA(C|Ç)(U|Ú)CAR`, 2),
			sig(`\bFIAMBRE\b`, 2),
			sig(`(ÁGUA|\bAGUA)\b`, 1),
			sig(`\bIOGURTE\b`, 2),
		},
		IT: {
			sig(`\bLATTE\b`, 2),
			sig(`\bPANE\b`, 2),
			sig(`\bUOVA\b`, 2),
			sig(`\bFORMAGGIO\b`, 2),
			sig(`\bACQUA\b`, 2),
			sig(`\bBIRRA\b`, 2),
			sig(`\bBURRO\b`, 2),
			sig(`\bZUCCHERO\b`, 2),
			sig(`\bPROSCIUTTO\b`, 2),
			sig(`\bPOLLO\b`, 1),
			sig(`\bMELE\b`, 1),
		},
		DE: {
			sig(`\bMILCH\b`, 2),
			sig(`\bBROT\b`, 2),
			sig(`\bEIER\b`, 2),
			sig(`\bH(Ä|AE)HNCHEN`, 2),
			sig(`\bK(Ä|AE)SE`, 2),
			sig(`\bWASSER\b`, 2),
			sig(`\bZUCKER\b`, 2),
			sig(`\bSCHINKEN\b`, 2),
			sig(`\bJOGHURT\b`, 2),
			sig(`\bBIER\b`, 1),
			sig(`\bBUTTER\b`, 1),
		},
		NL: {
			sig(`\bMELK\b`, 2),
			sig(`\bBROOD\b`, 2),
			sig(`\bEIEREN\b`, 2),
			sig(`\bKIP\b`, 2),
			sig(`\bKAAS\b`, 2),
			sig(`\bBOTER\b`, 2),
			sig(`\bSUIKER\b`, 2),
			sig(`\bAPPELS\b`, 2),
			sig(`\bBIER\b`, 1),
			sig(`\bWATER\b`, 1),
		},
		CA: {
			sig(`\bLLET\b`, 2),
			sig(`\bOUS\b`, 2),
			sig(`\bPOLLASTRE\b`, 2),
			sig(`\bFORMATGE\b`, 2),
			sig(`\bAIGUA\b`, 2),
			sig(`\bCERVESA\b`, 2),
			sig(`\bMANTEGA\b`, 2),
			sig(`\bPERNIL\b`, 2),
			sig(`\bPOMES\b`, 2),
			sig(`\bSUCRE\b`, 1),
		},
	}
}
