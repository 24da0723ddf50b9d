package forms

// User-facing validation messages (Arabic, as shown on the site).
const (
	msgRequired      = "الحقل '%s' مطلوب."
	msgEmail         = "البريد الإلكتروني غير صحيح."
	msgNameShort     = "الاسم يجب أن يكون أكثر من حرفين."
	msgNameLong      = "الاسم طويل جداً."
	msgSubjectShort  = "الموضوع يجب أن يكون أكثر من 5 أحرف."
	msgSubjectLong   = "الموضوع طويل جداً."
	msgMessageLong   = "الرسالة طويلة جداً. الحد الأقصى %d حرف."
	msgPhone         = "رقم الهاتف غير صحيح."
	msgDateFormat    = "تنسيق التاريخ غير صحيح."
	msgTimeFormat    = "تنسيق الوقت غير صحيح."
	msgDatePast      = "لا يمكن حجز موعد في تاريخ سابق."
	msgDateTooFar    = "لا يمكن حجز موعد أكثر من %d أشهر مقدماً."
	msgDateClosed    = "المختبر مغلق في هذا اليوم."
	msgOutsideHours  = "ساعات العمل من %s إلى %s."
	msgUnknownSvc    = "الخدمة المحددة غير متوفرة."
	msgUnknownBranch = "الفرع المحدد غير متوفر."
)
