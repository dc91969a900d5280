package chat

const (
	emergencyBanner = "🚨 **EMERGENCY ALERT**: Your symptoms suggest a potentially serious condition. " +
		"Please call emergency services (112/911) immediately.\n\n" +
		"While waiting for help:\n" +
		"- Stay calm and rest\n" +
		"- Do not exert yourself\n" +
		"- Keep your phone nearby\n\n" +
		"Detected concerns: %s\n\n" +
		"---\n\n"

	headacheAdvice = "Based on your description, here are some suggestions:\n\n" +
		"**Possible causes:** Tension headache, migraine, dehydration, stress\n\n" +
		"**Recommended actions:**\n" +
		"1. Rest in a quiet, dark room\n" +
		"2. Stay hydrated — drink water\n" +
		"3. Consider OTC pain relief (paracetamol/ibuprofen)\n" +
		"4. Apply a cold compress to your forehead\n\n" +
		"⚠️ Seek medical attention if: headache is sudden and severe, " +
		"accompanied by fever, stiff neck, confusion, or vision changes."

	feverAdvice = "**Fever Management Guidance:**\n\n" +
		"1. Monitor your temperature every 4 hours\n" +
		"2. Stay well hydrated (water, clear fluids)\n" +
		"3. Rest and avoid strenuous activity\n" +
		"4. Consider paracetamol for comfort\n" +
		"5. Wear light, breathable clothing\n\n" +
		"⚠️ Seek medical attention if: fever exceeds 103°F (39.4°C), " +
		"lasts more than 3 days, or is accompanied by severe symptoms."

	coldAdvice = "**Common Cold / Upper Respiratory Symptoms:**\n\n" +
		"1. Get plenty of rest\n" +
		"2. Drink warm fluids (tea, soup, warm water with honey)\n" +
		"3. Gargle with salt water for sore throat\n" +
		"4. Use a humidifier if available\n" +
		"5. OTC decongestants may help\n\n" +
		"⚠️ See a doctor if: symptoms worsen after 7-10 days, " +
		"you have difficulty breathing, or develop a high fever."

	stomachAdvice = "**Gastrointestinal Symptom Guidance:**\n\n" +
		"1. Stay hydrated — small sips of water or ORS\n" +
		"2. Follow the BRAT diet (bananas, rice, applesauce, toast)\n" +
		"3. Avoid dairy, fatty, or spicy foods\n" +
		"4. Rest your stomach — eat light meals\n\n" +
		"⚠️ Seek medical attention if: you see blood, have severe abdominal pain, " +
		"or cannot keep fluids down for 24 hours."

	medicationAdvice = "I can help with medication information. Please provide:\n\n" +
		"1. The name of the medication\n" +
		"2. Your existing conditions (if any)\n" +
		"3. Other medications you're taking\n\n" +
		"⚠️ Always consult a doctor or pharmacist before starting, " +
		"stopping, or changing any medication."

	defaultHealthAdvice = "Thank you for sharing your health concern. To provide better guidance, " +
		"could you please tell me:\n\n" +
		"1. What specific symptoms are you experiencing?\n" +
		"2. How long have you had these symptoms?\n" +
		"3. On a scale of 1-10, how severe are they?\n" +
		"4. Do you have any existing medical conditions?\n\n" +
		"This information will help me give you more accurate advice.\n\n" +
		"⚠️ *This is AI-generated health information for educational purposes only. " +
		"It does not replace professional medical advice.*"

	crisisResponse = "🆘 **I hear you, and I want you to know that you matter.**\n\n" +
		"What you're feeling right now is temporary, even though it may not feel that way. " +
		"Please reach out to someone who can help:\n\n" +
		"📞 **Crisis Helplines:**\n" +
		"- 🇮🇳 India: iCall — 9152987821\n" +
		"- 🇮🇳 Vandrevala Foundation — 1860-2662-345\n" +
		"- 🇺🇸 USA: 988 Suicide & Crisis Lifeline — dial 988\n" +
		"- 🌍 International: findahelpline.com\n\n" +
		"You are not alone. Someone cares about you right now. 💙"

	sadnessResponse = "I can sense you're going through a difficult time, and I appreciate you " +
		"sharing this with me. 💙\n\n" +
		"It's completely okay to feel sad. Here are some things that might help:\n\n" +
		"1. **Talk to someone** — a friend, family member, or counselor\n" +
		"2. **Practice self-care** — eat well, sleep enough, move your body\n" +
		"3. **Be gentle with yourself** — you don't have to have it all figured out\n" +
		"4. **Journal your thoughts** — writing can help process emotions\n\n" +
		"Would you like to tell me more about what's been on your mind?"

	angerResponse = "I understand you're feeling frustrated or angry. Those are valid emotions. 🧡\n\n" +
		"**Some techniques that may help:**\n\n" +
		"1. **Deep breathing** — inhale for 4 counts, hold 4, exhale 4\n" +
		"2. **Physical activity** — even a short walk can help\n" +
		"3. **Step back** — give yourself space before reacting\n" +
		"4. **Name your triggers** — understanding what upsets you gives you power\n\n" +
		"Would you like to talk about what's causing these feelings?"

	anxietyResponse = "I hear you. Anxiety and fear can feel overwhelming, but you're taking " +
		"a brave step by talking about it. 💙\n\n" +
		"**Grounding techniques that may help right now:**\n\n" +
		"1. **5-4-3-2-1 method** — name 5 things you see, 4 you touch, 3 you hear, " +
		"2 you smell, 1 you taste\n" +
		"2. **Box breathing** — 4 counts in, 4 hold, 4 out, 4 hold\n" +
		"3. **Progressive muscle relaxation** — tense and release each muscle group\n\n" +
		"Would you like to explore what's triggering your anxiety?"

	defaultMentalResponse = "Thank you for reaching out. I'm here to listen and support you. 💙\n\n" +
		"How are you feeling right now? Take your time — there's no rush.\n\n" +
		"I can help with:\n" +
		"- Understanding your emotions\n" +
		"- Coping strategies for stress, anxiety, or sadness\n" +
		"- Mindfulness and relaxation techniques\n" +
		"- When to seek professional support\n\n" +
		"Whatever you're going through, you don't have to face it alone."
)
