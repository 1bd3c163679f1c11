package i18n

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// messages maps a language to its translations of the English report labels
var messages = map[language.Tag]map[string]string{
	language.Arabic: {
		"Account":         "الحساب",
		"Cost Center":     "مركز التكلفة",
		"Project":         "المشروع",
		"Project Name":    "اسم المشروع",
		"Project Subject": "موضوع المشروع",
		"Party Type":      "نوع الطرف",
		"Party":           "الطرف",
		"Party Name":      "اسم الطرف",
		"Customer":        "العميل",
		"Customer Name":   "اسم العميل",
		"Supplier":        "المورد",
		"Supplier Name":   "اسم المورد",
		"Employee":        "الموظف",
		"Employee Name":   "اسم الموظف",
		"Shareholder":     "المساهم",
		"Posting Date":    "تاريخ الترحيل",
		"Opening":         "افتتاحي",
		"Opening (Dr)":    "الافتتاحي (مدين)",
		"Opening (Cr)":    "الافتتاحي (دائن)",
		"Debit":           "مدين",
		"Credit":          "دائن",
		"Closing (Dr)":    "الختامي (مدين)",
		"Closing (Cr)":    "الختامي (دائن)",
		"Currency":        "العملة",
		"Voucher Type":    "نوع القسيمة",
		"Voucher No":      "رقم القسيمة",
	},
	language.French: {
		"Account":         "Compte",
		"Cost Center":     "Centre de coûts",
		"Project":         "Projet",
		"Project Name":    "Nom du projet",
		"Project Subject": "Objet du projet",
		"Party Type":      "Type de tiers",
		"Party":           "Tiers",
		"Party Name":      "Nom du tiers",
		"Customer":        "Client",
		"Customer Name":   "Nom du client",
		"Supplier":        "Fournisseur",
		"Supplier Name":   "Nom du fournisseur",
		"Employee":        "Employé",
		"Employee Name":   "Nom de l'employé",
		"Shareholder":     "Actionnaire",
		"Posting Date":    "Date de comptabilisation",
		"Opening":         "Ouverture",
		"Opening (Dr)":    "Ouverture (Débit)",
		"Opening (Cr)":    "Ouverture (Crédit)",
		"Debit":           "Débit",
		"Credit":          "Crédit",
		"Closing (Dr)":    "Clôture (Débit)",
		"Closing (Cr)":    "Clôture (Crédit)",
		"Currency":        "Devise",
		"Voucher Type":    "Type de pièce",
		"Voucher No":      "N° de pièce",
	},
}

// buildCatalog returns the label catalog and its languages, English first.
func buildCatalog() (catalog.Catalog, []language.Tag) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	tags := []language.Tag{language.English}

	others := make([]language.Tag, 0, len(messages))
	for tag := range messages {
		others = append(others, tag)
	}
	sort.Slice(others, func(i, j int) bool { return others[i].String() < others[j].String() })

	for _, tag := range others {
		for key, msg := range messages[tag] {
			// SetString only fails on malformed tags, which the literals above are not
			_ = b.SetString(tag, key, msg)
		}
		tags = append(tags, tag)
	}
	return b, tags
}
