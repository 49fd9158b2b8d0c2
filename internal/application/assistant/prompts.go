package assistant

import (
	"fmt"

	domain "github.com/azkar-hub/azkar-hub/internal/domain/assistant"
)

const askSystemPrompt = "أنت مساعد ذكي متخصص في الأذكار والأدعية الإسلامية.\n" +
	"أجب على الأسئلة بطريقة علمية دقيقة مع ذكر المصادر عند الإمكان.\n" +
	"اجعل إجاباتك واضحة ومفيدة للمسلمين في حياتهم اليومية.\n" +
	"إذا لم تكن متأكداً من الإجابة، اطلب من المستخدم استشارة عالم دين."

// User-facing fallbacks.
const (
	FallbackNoAnswer  = "عذراً، لم أتمكن من الإجابة على سؤالك."
	FallbackAskError  = "عذراً، حدث خطأ تقني. يرجى المحاولة مرة أخرى."
	FallbackReminder  = "حان وقت الأذكار! بارك الله فيك."
	FallbackExplainer = "هذا ذكر عظيم له فضل كبير في الإسلام."
)

var levelDescriptions = map[domain.Level]string{
	domain.LevelBeginner:     "مبتدئ - استخدم لغة بسيطة وواضحة",
	domain.LevelIntermediate: "متوسط - يمكن استخدام مصطلحات دينية معتدلة",
	domain.LevelAdvanced:     "متقدم - يمكن استخدام مصطلحات علمية ومراجع",
}

func reminderPrompt(tod domain.TimeOfDay, stats domain.UserStats) string {
	when := "المساء"
	if tod == domain.Morning {
		when = "الصباح"
	}
	return fmt.Sprintf("أنشئ رسالة تذكير شخصية ومحفزة للأذكار باللغة العربية.\n"+
		"معلومات المستخدم:\n"+
		"- وقت اليوم: %s\n"+
		"- عدد الأيام المتتالية: %d\n"+
		"- معدل الإكمال: %g%%\n"+
		"- الفئة المفضلة: %s\n\n"+
		"اجعل الرسالة قصيرة (50 كلمة كحد أقصى) ومشجعة وشخصية.",
		when, stats.Streak, stats.CompletionRate, stats.FavoriteCategory)
}

func explainPrompt(text string, level domain.Level) string {
	desc, ok := levelDescriptions[level]
	if !ok {
		desc = levelDescriptions[domain.LevelBeginner]
	}
	return fmt.Sprintf("اشرح معنى وفضل هذا الذكر باللغة العربية للمستوى %s:\n\"%s\"\n\nاجعل الشرح مفيداً وملهماً في 100-150 كلمة.", desc, text)
}
