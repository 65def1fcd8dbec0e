// Package ai drafts petitions: a fixed prompt template around the client's
// narrative, and a generative model that writes the petition from it.
package ai

import "strings"

const promptHeader = "Você é um assistente jurídico especialista em direito civil brasileiro, atuando como um advogado sênior. " +
	"Sua tarefa é elaborar uma Petição Inicial clara, bem fundamentada e tecnicamente precisa.\n\n" +
	"Analise a narração dos fatos a seguir e estruture o documento final contendo os seguintes elementos obrigatórios, nesta ordem:\n" +
	"1. Endereçamento (Ex: EXCELENTÍSSIMO SENHOR DOUTOR JUIZ DE DIREITO DA ... VARA CÍVEL DA COMARCA DE ...).\n" +
	"2. Qualificação completa das partes (Autor e Réu).\n" +
	"3. Uma seção clara e objetiva intitulada 'DOS FATOS'.\n" +
	"4. Uma seção robusta intitulada 'DO DIREITO', apresentando a fundamentação jurídica pertinente ao caso " +
	"(cite artigos de lei e, se possível, jurisprudência relevante).\n" +
	"5. Uma seção final intitulada 'DOS PEDIDOS', listando de forma clara e inequívoca tudo o que se pleiteia.\n\n" +
	"A seguir, a narração dos fatos fornecida pelo usuário:\n" +
	"--- INÍCIO DOS FATOS ---\n"

const promptFooter = "\n--- FIM DOS FATOS ---\n\n" +
	"Elabore a petição com base estritamente nos fatos apresentados."

// BuildPrompt embeds facts verbatim in the petition template. It makes no
// model call and is deterministic.
func BuildPrompt(facts string) string {
	var b strings.Builder
	b.Grow(len(promptHeader) + len(facts) + len(promptFooter))
	b.WriteString(promptHeader)
	b.WriteString(facts)
	b.WriteString(promptFooter)
	return b.String()
}
