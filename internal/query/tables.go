package query

// Static reference tables for entity extraction. These mirror the outpatient
// registration system of the supported hospital; extraction is a pure
// function of the query text and these tables.

// realTimeKeywords are the temporal/queue-status trigger phrases. A query
// containing any of them demands live data instead of static profiles.
var realTimeKeywords = []string{
	"看到幾號", "叫號", "現在", "目前", "即時",
	"等待時間", "排隊", "進度", "現在看到", "當前",
}

// hospitalAlias maps full names, abbreviations and colloquial names to one
// canonical key. Order matters: earlier entries win.
var hospitalAliases = []struct {
	Alias     string
	Canonical string
}{
	{"高醫", "高醫"},
	{"高雄醫學大學", "高醫"},
	{"高雄醫大", "高醫"},
	{"台大醫院", "台大"},
	{"台大", "台大"},
	{"長庚", "長庚"},
	{"榮總", "榮總"},
	{"三總", "三總"},
}

// departments lists the outpatient departments with their virtual-department
// registration codes. The declaration order fixes extraction precedence.
var departments = []struct {
	Name string
	Code string
}{
	{"內科部", "0100"},
	{"外科部", "0200"},
	{"婦產部", "0300"},
	{"小兒部", "0400"},
	{"眼科部", "0500"},
	{"耳鼻喉部", "0600"},
	{"骨科部", "0700"},
	{"泌尿部", "0800"},
	{"皮膚部", "0900"},
	{"神經部", "1000"},
	{"精神醫學部", "1100"},
	{"放射腫瘤部", "1200"},
	{"牙科部", "1300"},
	{"家庭醫學科", "1500"},
	{"急診部", "1600"},
	{"疼痛科", "1700"},
	{"復健部", "1800"},
	{"健康管理中心", "1900"},
	{"職業及環境醫學科", "2100"},
	{"癌症中心", "2500"},
	{"社區醫學部", "2600"},
	{"中醫部", "2800"},
	{"特別門診", "2900"},
	{"影像醫學部", "3300"},
	{"麻醉部", "3400"},
	{"藥學部", "4600"},
	{"特殊血液病防治中心", "9909"},
	{"一般門診", "9925"},
	{"臨床試驗門診", "9926"},
	{"檢驗醫學基因診斷門診", "9927"},
	{"老人健康照護計畫門診", "9928"},
	{"多重抗藥結核特診", "9940"},
	{"共病族群潛伏結核感染治療特診", "9941"},
	{"外籍服藥支持計畫診", "9943"},
}

// commonSurnames keys the staff-name heuristic. The pattern only fires on
// names starting with one of these characters.
const commonSurnames = "王李張陳林吳楊黃蔡鄭梁葉郭余"
