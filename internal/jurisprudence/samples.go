package jurisprudence

import (
	"time"

	"github.com/hugh/ritum/internal/database/models"
)

func SampleDocuments() []models.JurisprudenceDocument {
	return []models.JurisprudenceDocument{
		{
			Court:           "STJ",
			CaseNumber:      "REsp 1827821-DF",
			PublicationDate: time.Date(2023, 5, 18, 0, 0, 0, 0, time.UTC),
			Summary: "DIREITO DO CONSUMIDOR. RESPONSABILIDADE CIVIL. INTERNET. PROVEDOR. CONTEÚDO OFENSIVO. REMOÇÃO. NOTIFICAÇÃO. " +
				"O provedor de aplicações de internet somente será responsabilizado civilmente por danos decorrentes de conteúdo " +
				"gerado por terceiros se, após notificação judicial para remoção do conteúdo, não o fizer no prazo legal.",
			FullText: "DIREITO DO CONSUMIDOR. RESPONSABILIDADE CIVIL. INTERNET. PROVEDOR DE APLICAÇÕES. CONTEÚDO OFENSIVO. REMOÇÃO. " +
				"NOTIFICAÇÃO JUDICIAL. O provedor de aplicações de internet, tal como redes sociais e plataformas de vídeo, somente " +
				"será responsabilizado civilmente por danos decorrentes de conteúdo gerado por terceiros se, após notificação judicial " +
				"específica para remoção do conteúdo, não o fizer no prazo legal, nos termos do art. 19 da Lei do Marco Civil da " +
				"Internet. A notificação extrajudicial não é suficiente para caracterizar a responsabilidade. Precedente do STJ.",
		},
		{
			Court:           "TJSP",
			CaseNumber:      "Apelação Cível 1005872-35.2021.8.26.0007",
			PublicationDate: time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
			Summary: "CONTRATO. COMPRA E VENDA DE IMÓVEL. ATRASO NA ENTREGA. INADIMPLÊNCIA. DANO MORAL. INDENIZAÇÃO. " +
				"Configurado o atraso injustificado na entrega de imóvel, é devida a indenização por danos morais ao consumidor, " +
				"pois a situação ultrapassa o mero dissabor do cotidiano. Jurisprudência do TJSP.",
			FullText: "APELAÇÃO. COMPRA E VENDA DE IMÓVEL. ATRASO. DANO MORAL. Conforme entendimento consolidado nesta Corte, " +
				"o atraso na entrega de imóvel por culpa exclusiva da construtora enseja a reparação por danos morais, visto que a " +
				"situação de incerteza e insegurança gerada ao consumidor ultrapassa o mero aborrecimento e gera grave abalo " +
				"psicológico. Sentença mantida. Recurso desprovido.",
		},
	}
}
